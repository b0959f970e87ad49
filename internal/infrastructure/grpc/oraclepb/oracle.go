// Package oraclepb defines the oracle.v1.OracleService wire contract.
//
// The contract is JSON over gRPC, not protobuf: requests and responses are
// the JSON objects described by the struct tags below, framed by gRPC with
// content-subtype "json" (content-type application/grpc+json). Clients in
// other languages must register an equivalent JSON codec.
package oraclepb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	ServiceName        = "oracle.v1.OracleService"
	GetPriceFullMethod = "/" + ServiceName + "/GetPrice"
)

type GetPriceRequest struct {
	MaximumAge   uint64 `json:"maximum_age"`
	FeedIdHex    string `json:"feed_id_hex"`
	PriceAccount string `json:"price_account"`
	Payer        string `json:"payer"`
	TraceId      string `json:"trace_id,omitempty"`
}

func (x *GetPriceRequest) GetMaximumAge() uint64 {
	if x == nil {
		return 0
	}
	return x.MaximumAge
}

func (x *GetPriceRequest) GetFeedIdHex() string {
	if x == nil {
		return ""
	}
	return x.FeedIdHex
}

func (x *GetPriceRequest) GetPriceAccount() string {
	if x == nil {
		return ""
	}
	return x.PriceAccount
}

func (x *GetPriceRequest) GetPayer() string {
	if x == nil {
		return ""
	}
	return x.Payer
}

func (x *GetPriceRequest) GetTraceId() string {
	if x == nil {
		return ""
	}
	return x.TraceId
}

type GetPriceResponse struct {
	Price       int64  `json:"price"`
	Conf        uint64 `json:"conf"`
	Exponent    int32  `json:"exponent"`
	PublishTime int64  `json:"publish_time"`
}

func (x *GetPriceResponse) GetPrice() int64 {
	if x == nil {
		return 0
	}
	return x.Price
}

func (x *GetPriceResponse) GetConf() uint64 {
	if x == nil {
		return 0
	}
	return x.Conf
}

func (x *GetPriceResponse) GetExponent() int32 {
	if x == nil {
		return 0
	}
	return x.Exponent
}

func (x *GetPriceResponse) GetPublishTime() int64 {
	if x == nil {
		return 0
	}
	return x.PublishTime
}

type OracleServiceClient interface {
	GetPrice(ctx context.Context, in *GetPriceRequest, opts ...grpc.CallOption) (*GetPriceResponse, error)
}

type oracleServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewOracleServiceClient(cc grpc.ClientConnInterface) OracleServiceClient {
	return &oracleServiceClient{cc: cc}
}

func (c *oracleServiceClient) GetPrice(ctx context.Context, in *GetPriceRequest, opts ...grpc.CallOption) (*GetPriceResponse, error) {
	out := new(GetPriceResponse)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := c.cc.Invoke(ctx, GetPriceFullMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

type OracleServiceServer interface {
	GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error)
}

// UnimplementedOracleServiceServer can be embedded for forward compatibility.
type UnimplementedOracleServiceServer struct{}

func (UnimplementedOracleServiceServer) GetPrice(context.Context, *GetPriceRequest) (*GetPriceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetPrice not implemented")
}

func RegisterOracleServiceServer(s grpc.ServiceRegistrar, srv OracleServiceServer) {
	s.RegisterService(&OracleService_ServiceDesc, srv)
}

func getPriceHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(GetPriceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(OracleServiceServer).GetPrice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: GetPriceFullMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(OracleServiceServer).GetPrice(ctx, req.(*GetPriceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

var OracleService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*OracleServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetPrice", Handler: getPriceHandler},
	},
	Streams: []grpc.StreamDesc{},
}
