package rpc

import (
	config "github.com/thirdweb-dev/hmy-formatter/configs"
)

const (
	DEFAULT_NAMESPACE                = "hmy"
	DEFAULT_BLOCKS_PER_REQUEST       = 100
	DEFAULT_TRANSACTIONS_PER_REQUEST = 250
)

func GetBlocksPerRequestConfig() BlocksPerRequestConfig {
	blocksPerRequest := config.Cfg.RPC.Blocks.BlocksPerRequest
	if blocksPerRequest == 0 {
		blocksPerRequest = DEFAULT_BLOCKS_PER_REQUEST
	}
	transactionsPerRequest := config.Cfg.RPC.Transactions.TransactionsPerRequest
	if transactionsPerRequest == 0 {
		transactionsPerRequest = DEFAULT_TRANSACTIONS_PER_REQUEST
	}
	return BlocksPerRequestConfig{
		Blocks:       blocksPerRequest,
		Transactions: transactionsPerRequest,
	}
}

func getNamespace() string {
	if config.Cfg.RPC.Namespace == "" {
		return DEFAULT_NAMESPACE
	}
	return config.Cfg.RPC.Namespace
}
