package common

import (
	"math/big"
)

// Transaction is a signed transaction decoded from its raw encoding.
type Transaction struct {
	Hash      string   `json:"hash"`
	Type      *uint64  `json:"type,omitempty"`
	From      *string  `json:"from"`
	To        *string  `json:"to"`
	Nonce     uint64   `json:"nonce"`
	GasLimit  *big.Int `json:"gasLimit"`
	GasPrice  *big.Int `json:"gasPrice"`
	Value     *big.Int `json:"value"`
	Data      string   `json:"data"`
	ChainID   *big.Int `json:"chainId"`
	ShardID   uint32   `json:"shardID"`
	ToShardID uint32   `json:"toShardID"`
	R         *string  `json:"r"`
	S         *string  `json:"s"`
	V         *uint64  `json:"v"`
	Msg       Msg      `json:"msg,omitempty"`
}

// TransactionResponse is a transaction as returned by the node, optionally mined.
type TransactionResponse struct {
	Hash                 string   `json:"hash"`
	Type                 uint64   `json:"type"`
	BlockHash            *string  `json:"blockHash"`
	BlockNumber          *uint64  `json:"blockNumber"`
	TransactionIndex     *uint64  `json:"transactionIndex"`
	Confirmations        *uint64  `json:"confirmations"`
	From                 string   `json:"from"`
	GasPrice             *big.Int `json:"gasPrice"`
	MaxPriorityFeePerGas *big.Int `json:"maxPriorityFeePerGas"`
	MaxFeePerGas         *big.Int `json:"maxFeePerGas"`
	GasLimit             *big.Int `json:"gasLimit"`
	To                   *string  `json:"to"`
	Value                *big.Int `json:"value"`
	Nonce                uint64   `json:"nonce"`
	Data                 string   `json:"data"`
	R                    *string  `json:"r"`
	S                    *string  `json:"s"`
	V                    *uint64  `json:"v"`
	Creates              *string  `json:"creates"`
	Raw                  *string  `json:"raw"`
}

// TransactionRequest is an unsigned transaction as submitted by a caller.
// Msg is only set for staking transactions.
type TransactionRequest struct {
	From                 *string  `json:"from,omitempty"`
	Nonce                *uint64  `json:"nonce,omitempty"`
	GasLimit             *big.Int `json:"gasLimit,omitempty"`
	GasPrice             *big.Int `json:"gasPrice,omitempty"`
	MaxPriorityFeePerGas *big.Int `json:"maxPriorityFeePerGas,omitempty"`
	MaxFeePerGas         *big.Int `json:"maxFeePerGas,omitempty"`
	To                   *string  `json:"to,omitempty"`
	Value                *big.Int `json:"value,omitempty"`
	Data                 *string  `json:"data,omitempty"`
	Type                 *uint64  `json:"type,omitempty"`
	Msg                  Msg      `json:"msg,omitempty"`
}
