package oracleclient

import (
	"context"
	"fmt"
	"time"

	"pricerelay-service/internal/application"
	"pricerelay-service/internal/domain"
	"pricerelay-service/internal/infrastructure/grpc/oraclepb"
	"pricerelay-service/internal/infrastructure/logx"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

var _ application.OracleInvoker = (*Client)(nil)

// Client invokes a remote oracle over gRPC on the relay's behalf.
type Client struct {
	conn    *grpc.ClientConn
	cli     oraclepb.OracleServiceClient
	timeout time.Duration
}

func New(target string, timeout time.Duration, opts ...grpc.DialOption) (*Client, func(), error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(target, opts...)
	if err != nil {
		return nil, nil, err
	}
	c := &Client{conn: conn, cli: oraclepb.NewOracleServiceClient(conn), timeout: timeout}
	return c, func() { _ = conn.Close() }, nil
}

func (c *Client) GetPrice(ctx context.Context, req application.GetPriceRequest) (domain.PriceQuote, error) {
	var cancel context.CancelFunc
	if c.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	in := &oraclepb.GetPriceRequest{
		MaximumAge:   req.MaximumAge,
		FeedIdHex:    req.FeedIDHex,
		PriceAccount: req.Record.String(),
		TraceId:      logx.TraceID(ctx),
	}
	if !req.Payer.IsZero() {
		in.Payer = req.Payer.String()
	}
	resp, err := c.cli.GetPrice(ctx, in)
	if err != nil {
		return domain.PriceQuote{}, fmt.Errorf("oracle rpc: %w", err)
	}
	return domain.PriceQuote{
		Price:       resp.GetPrice(),
		Conf:        resp.GetConf(),
		Exponent:    resp.GetExponent(),
		PublishTime: resp.GetPublishTime(),
	}, nil
}
