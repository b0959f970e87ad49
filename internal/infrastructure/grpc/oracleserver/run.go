package oracleserver

import (
	"context"
	"net"

	"pricerelay-service/internal/infrastructure/grpc/oraclepb"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// RunServer starts a gRPC server and blocks until context is done.
func RunServer(ctx context.Context, addr string, srv oraclepb.OracleServiceServer, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return Serve(ctx, lis, srv, log)
}

// Serve runs the oracle service on an existing listener.
func Serve(ctx context.Context, lis net.Listener, srv oraclepb.OracleServiceServer, log *zap.Logger) error {
	gs := grpc.NewServer(grpc.Creds(insecure.NewCredentials()))
	oraclepb.RegisterOracleServiceServer(gs, srv)
	errCh := make(chan error, 1)
	go func() {
		log.Info("grpc_server_started", zap.String("addr", lis.Addr().String()))
		errCh <- gs.Serve(lis)
	}()
	select {
	case <-ctx.Done():
		log.Info("grpc_server_stopping")
		gs.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
