package common

import (
	"math/big"
)

type Log struct {
	TransactionIndex uint64   `json:"transactionIndex"`
	BlockNumber      uint64   `json:"blockNumber"`
	TransactionHash  string   `json:"transactionHash"`
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	LogIndex         uint64   `json:"logIndex"`
	BlockHash        string   `json:"blockHash"`
}

type TransactionReceipt struct {
	To                *string  `json:"to"`
	From              *string  `json:"from"`
	ContractAddress   *string  `json:"contractAddress"`
	TransactionIndex  uint64   `json:"transactionIndex"`
	Root              *string  `json:"root"`
	GasUsed           *big.Int `json:"gasUsed"`
	LogsBloom         *string  `json:"logsBloom"`
	BlockHash         string   `json:"blockHash"`
	TransactionHash   string   `json:"transactionHash"`
	Logs              []*Log   `json:"logs"`
	BlockNumber       uint64   `json:"blockNumber"`
	Confirmations     *uint64  `json:"confirmations"`
	CumulativeGasUsed *big.Int `json:"cumulativeGasUsed"`
	EffectiveGasPrice *big.Int `json:"effectiveGasPrice"`
	Status            *uint64  `json:"status"`
	Type              uint64   `json:"type"`
}
