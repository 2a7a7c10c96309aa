package formatter

// Format is a schema: field name to coercion.
type Format map[string]FormatFunc

func (f Format) Copy() Format {
	c := make(Format, len(f))
	for k, v := range f {
		c[k] = v
	}
	return c
}

type Formats struct {
	Transaction           Format
	TransactionRequest    Format
	ReceiptLog            Format
	Receipt               Format
	Block                 Format
	BlockWithTransactions Format

	DelegateMsg       Format
	UndelegateMsg     Format
	CollectRewardsMsg Format
}

// BaseCoercers are the coercions a chain formatter supplies to the generic schemas.
type BaseCoercers struct {
	Address             FormatFunc
	ReceiptLog          FormatFunc
	TransactionResponse FormatFunc
}

// BaseFormats returns the generic EVM schema set. Every call builds fresh maps,
// so callers may edit the result.
func BaseFormats(c BaseCoercers) Formats {
	address := c.Address

	formats := Formats{}

	formats.Transaction = Format{
		"hash": Hash,

		"type":       Type,
		"accessList": AllowNull(passthrough, nil),

		"blockHash":        AllowNull(Hash, nil),
		"blockNumber":      AllowNull(Number, nil),
		"transactionIndex": AllowNull(Number, nil),

		"confirmations": AllowNull(Number, nil),

		"from": address,

		"gasPrice":             AllowNull(BigNumber, nil),
		"maxPriorityFeePerGas": AllowNull(BigNumber, nil),
		"maxFeePerGas":         AllowNull(BigNumber, nil),

		"gasLimit": BigNumber,
		"to":       AllowNull(address, nil),
		"value":    BigNumber,
		"nonce":    Number,
		"data":     Data,

		"r": AllowNull(Uint256, nil),
		"s": AllowNull(Uint256, nil),
		"v": AllowNull(Number, nil),

		"creates": AllowNull(address, nil),

		"raw": AllowNull(Data, nil),
	}

	formats.TransactionRequest = Format{
		"from":                 AllowNull(address, nil),
		"nonce":                AllowNull(Number, nil),
		"gasLimit":             AllowNull(BigNumber, nil),
		"gasPrice":             AllowNull(BigNumber, nil),
		"maxPriorityFeePerGas": AllowNull(BigNumber, nil),
		"maxFeePerGas":         AllowNull(BigNumber, nil),
		"to":                   AllowNull(address, nil),
		"value":                AllowNull(BigNumber, nil),
		"data":                 AllowNull(StrictData, nil),
		"type":                 AllowNull(Number, nil),
		"accessList":           AllowNull(passthrough, nil),
	}

	formats.ReceiptLog = Format{
		"transactionIndex": Number,
		"blockNumber":      Number,
		"transactionHash":  Hash,
		"address":          address,
		"topics":           ArrayOf(Hash),
		"data":             Data,
		"logIndex":         Number,
		"blockHash":        Hash,
	}

	formats.Receipt = Format{
		"to":                AllowNull(address, nil),
		"from":              AllowNull(address, nil),
		"contractAddress":   AllowNull(address, nil),
		"transactionIndex":  Number,
		"root":              AllowNull(Hex, nil),
		"gasUsed":           BigNumber,
		"logsBloom":         AllowNull(Data, nil),
		"blockHash":         Hash,
		"transactionHash":   Hash,
		"logs":              ArrayOf(c.ReceiptLog),
		"blockNumber":       Number,
		"confirmations":     AllowNull(Number, nil),
		"cumulativeGasUsed": BigNumber,
		"effectiveGasPrice": AllowNull(BigNumber, nil),
		"status":            AllowNull(Number, nil),
		"type":              Type,
	}

	formats.Block = Format{
		"hash":       AllowNull(Hash, nil),
		"parentHash": Hash,
		"number":     Number,

		"timestamp": Number,
		"nonce":     AllowNull(Hex, nil),

		"difficulty": Difficulty,

		"gasLimit": BigNumber,
		"gasUsed":  BigNumber,

		"miner":     AllowNull(address, nil),
		"extraData": Data,

		"transactions": AllowNull(ArrayOf(Hash), nil),

		"baseFeePerGas": AllowNull(BigNumber, nil),
	}

	formats.BlockWithTransactions = formats.Block.Copy()
	formats.BlockWithTransactions["transactions"] = AllowNull(ArrayOf(c.TransactionResponse), nil)

	return formats
}

func passthrough(value interface{}) (interface{}, error) {
	return value, nil
}
