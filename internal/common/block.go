package common

import (
	"math/big"
)

// BlockHeader holds the fields shared by both block shapes.
type BlockHeader struct {
	Hash          *string  `json:"hash"`
	ParentHash    string   `json:"parentHash"`
	Number        uint64   `json:"number"`
	Timestamp     uint64   `json:"timestamp"`
	Nonce         *uint64  `json:"nonce"`
	Difficulty    *uint64  `json:"difficulty"`
	RawDifficulty *big.Int `json:"_difficulty"`
	GasLimit      *big.Int `json:"gasLimit"`
	GasUsed       *big.Int `json:"gasUsed"`
	Miner         *string  `json:"miner"`
	ExtraData     string   `json:"extraData"`
	BaseFeePerGas *big.Int `json:"baseFeePerGas"`
	ShardID       uint32   `json:"shardId"`
}

type Block struct {
	BlockHeader
	Transactions []string `json:"transactions"`
}

type BlockWithTransactions struct {
	BlockHeader
	Transactions []*TransactionResponse `json:"transactions"`
}
