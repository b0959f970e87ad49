package config

import "time"

const (
	DefaultRelayHTTPAddr   = ":8080"
	DefaultOracleHTTPAddr  = ":8081"
	DefaultGRPCAddr        = ":9090"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultPGMaxConns      = 5
	DefaultPGMinConns      = 1
	DefaultRPCTimeout      = 10 * time.Second

	// Pyth programs on Solana mainnet.
	DefaultReceiverProgram   = "rec5EKMGg6MxZYaMdyBfgwp4d5rB9T1VQH5pJv5LtFJ"
	DefaultPushOracleProgram = "pythWSnswVUd12oZpeFP8e9CVaEqJg25g1Vtc2biRsT"
)
