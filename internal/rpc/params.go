package rpc

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

func GetBlockWithTransactionsParams(blockNum *big.Int) []interface{} {
	return []interface{}{hexutil.EncodeBig(blockNum), true}
}

func GetBlockWithoutTransactionsParams(blockNum *big.Int) []interface{} {
	return []interface{}{hexutil.EncodeBig(blockNum), false}
}

func GetTransactionParams(txHash string) []interface{} {
	return []interface{}{txHash}
}

func GetReceiptParams(txHash string) []interface{} {
	return []interface{}{txHash}
}
