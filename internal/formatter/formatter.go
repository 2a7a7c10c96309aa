package formatter

import (
	"errors"
	"fmt"
	"strings"

	gethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/thirdweb-dev/hmy-formatter/internal/common"
	"github.com/thirdweb-dev/hmy-formatter/internal/transactions"
)

var ErrInvalidMsgType = errors.New("invalid msg type")

// Formatter turns raw node records into typed records for one shard.
// The schema set is built once in New and never modified afterwards, so a
// Formatter may be shared between goroutines.
type Formatter struct {
	shardID uint32
	formats Formats
}

func New(shardID uint32) *Formatter {
	f := &Formatter{shardID: shardID}
	f.formats = f.defaultFormats()
	return f
}

func (f *Formatter) ShardID() uint32 {
	return f.shardID
}

// Formats returns the schema set. Callers must not modify it.
func (f *Formatter) Formats() Formats {
	return f.formats
}

func (f *Formatter) defaultFormats() Formats {
	formats := BaseFormats(BaseCoercers{
		Address:             f.address,
		ReceiptLog:          f.receiptLog,
		TransactionResponse: f.transactionResponse,
	})

	formats.Block["nonce"] = Number
	formats.BlockWithTransactions["nonce"] = Number

	// transactions on this chain never carry an access list
	delete(formats.Transaction, "accessList")
	delete(formats.TransactionRequest, "accessList")

	formats.DelegateMsg = Format{
		"delegatorAddress": f.address,
		"validatorAddress": f.address,
		"amount":           BigNumber,
	}

	formats.UndelegateMsg = Format{
		"delegatorAddress": f.address,
		"validatorAddress": f.address,
		"amount":           BigNumber,
	}

	formats.CollectRewardsMsg = Format{
		"delegatorAddress": f.address,
	}

	return formats
}

// Transaction decodes a raw signed transaction.
func (f *Formatter) Transaction(raw interface{}) (*common.Transaction, error) {
	return transactions.Parse(raw)
}

func (f *Formatter) TransactionRequest(value map[string]interface{}) (*common.TransactionRequest, error) {
	record, err := Check(f.formats.TransactionRequest, value)
	if err != nil {
		return nil, err
	}
	request := &common.TransactionRequest{}
	if err := decode(record, request); err != nil {
		return nil, err
	}

	if !isNull(value["type"]) {
		var payload map[string]interface{}
		if !isNull(value["msg"]) {
			m, ok := value["msg"].(map[string]interface{})
			if !ok {
				return nil, &FieldError{Key: "msg", Value: value["msg"], Err: fmt.Errorf("%w: not an object", ErrInvalidValue)}
			}
			payload = m
		}
		msg, err := f.Msg(value["type"], payload)
		if err != nil {
			return nil, err
		}
		request.Msg = msg
	}

	return request, nil
}

// Msg validates a staking payload against the schema of its directive.
func (f *Formatter) Msg(tag interface{}, value map[string]interface{}) (common.Msg, error) {
	directive, ok := toDirective(tag)
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMsgType, tag)
	}

	var format Format
	var msg common.Msg
	switch directive {
	case common.DirectiveDelegate:
		format, msg = f.formats.DelegateMsg, &common.DelegateMsg{}
	case common.DirectiveUndelegate:
		format, msg = f.formats.UndelegateMsg, &common.UndelegateMsg{}
	case common.DirectiveCollectRewards:
		format, msg = f.formats.CollectRewardsMsg, &common.CollectRewardsMsg{}
	default:
		return nil, fmt.Errorf("%w: %v", ErrInvalidMsgType, tag)
	}

	record, err := Check(format, value)
	if err != nil {
		return nil, err
	}
	if err := decode(record, msg); err != nil {
		return nil, err
	}
	return msg, nil
}

// toDirective matches numbers only, so "2" or "0x2" are not tags.
func toDirective(tag interface{}) (common.Directive, bool) {
	switch v := tag.(type) {
	case common.Directive:
		return v, true
	case nil, string, []byte:
		return 0, false
	}
	n, err := Number(tag)
	if err != nil || n.(uint64) > 0xff {
		return 0, false
	}
	return common.Directive(n.(uint64)), true
}

// Address returns the checksum form of a hex or bech32 address.
func (f *Formatter) Address(value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		if value == nil {
			return "", fmt.Errorf("%w: address", ErrMissingValue)
		}
		return "", fmt.Errorf("%w: address %v (%T)", common.ErrInvalidAddress, value, value)
	}
	addr, err := common.GetAddress(s)
	if err != nil {
		return "", err
	}
	return addr.Checksum, nil
}

func (f *Formatter) address(value interface{}) (interface{}, error) {
	return f.Address(value)
}

// ContractAddress derives the address a deployment from value["from"] at
// value["nonce"] creates.
func (f *Formatter) ContractAddress(value map[string]interface{}) (string, error) {
	from, err := f.Address(value["from"])
	if err != nil {
		return "", err
	}
	nonce, err := Number(value["nonce"])
	if err != nil {
		return "", err
	}
	return crypto.CreateAddress(gethCommon.HexToAddress(from), nonce.(uint64)).Hex(), nil
}

func (f *Formatter) buildBlock(value map[string]interface{}, format Format) (Record, error) {
	raw := copyRecord(value)
	if !isNull(raw["author"]) && isNull(raw["miner"]) {
		raw["miner"] = raw["author"]
	}

	difficulty := raw["_difficulty"]
	if isNull(difficulty) {
		difficulty = raw["difficulty"]
	}

	record, err := Check(format, raw)
	if err != nil {
		return nil, err
	}

	record["_difficulty"] = nil
	if !isNull(difficulty) {
		d, err := BigNumber(difficulty)
		if err != nil {
			return nil, &FieldError{Key: "difficulty", Value: difficulty, Err: err}
		}
		record["_difficulty"] = d
	}

	record["shardId"] = f.shardID
	return record, nil
}

func (f *Formatter) Block(value map[string]interface{}) (*common.Block, error) {
	record, err := f.buildBlock(value, f.formats.Block)
	if err != nil {
		return nil, err
	}
	block := &common.Block{}
	if err := decode(record, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (f *Formatter) BlockWithTransactions(value map[string]interface{}) (*common.BlockWithTransactions, error) {
	record, err := f.buildBlock(value, f.formats.BlockWithTransactions)
	if err != nil {
		return nil, err
	}
	block := &common.BlockWithTransactions{}
	if err := decode(record, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (f *Formatter) TransactionResponse(value map[string]interface{}) (*common.TransactionResponse, error) {
	transaction := copyRecord(value)

	if !isNull(transaction["gas"]) && isNull(transaction["gasLimit"]) {
		transaction["gasLimit"] = transaction["gas"]
	}

	if !isNull(transaction["input"]) && isNull(transaction["data"]) {
		transaction["data"] = transaction["input"]
	}

	// contract deployments have no recipient
	if isNull(transaction["to"]) && isNull(transaction["creates"]) {
		creates, err := f.ContractAddress(transaction)
		if err != nil {
			return nil, err
		}
		transaction["creates"] = creates
	}

	record, err := Check(f.formats.Transaction, transaction)
	if err != nil {
		return nil, err
	}
	result := &common.TransactionResponse{}
	if err := decode(record, result); err != nil {
		return nil, err
	}

	// pending transactions report an all zero block hash instead of null
	if result.BlockHash != nil && strings.ReplaceAll(*result.BlockHash, "0", "") == "x" {
		result.BlockHash = nil
	}

	return result, nil
}

func (f *Formatter) transactionResponse(value interface{}) (interface{}, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: transaction %v (%T)", ErrInvalidValue, value, value)
	}
	return f.TransactionResponse(m)
}

func (f *Formatter) Receipt(value map[string]interface{}) (*common.TransactionReceipt, error) {
	record, err := Check(f.formats.Receipt, value)
	if err != nil {
		return nil, err
	}
	receipt := &common.TransactionReceipt{}
	if err := decode(record, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (f *Formatter) receiptLog(value interface{}) (interface{}, error) {
	m, ok := value.(map[string]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: log %v (%T)", ErrInvalidValue, value, value)
	}
	record, err := Check(f.formats.ReceiptLog, m)
	if err != nil {
		return nil, err
	}
	l := &common.Log{}
	if err := decode(record, l); err != nil {
		return nil, err
	}
	return l, nil
}

func copyRecord(value map[string]interface{}) map[string]interface{} {
	c := make(map[string]interface{}, len(value))
	for k, v := range value {
		c[k] = v
	}
	return c
}
