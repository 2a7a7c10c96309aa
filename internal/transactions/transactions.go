package transactions

import (
	"math/big"
	"strings"

	gethCommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"
	"github.com/thirdweb-dev/hmy-formatter/internal/common"
)

var (
	ErrInvalidTransaction   = errors.New("invalid transaction")
	ErrUnsupportedDirective = errors.New("unsupported directive")
	ErrInvalidSignature     = errors.New("invalid signature")
)

const (
	plainTxFields   = 11
	stakingTxFields = 8
)

type plainTxData struct {
	AccountNonce uint64
	Price        *big.Int
	GasLimit     uint64
	ShardID      uint32
	ToShardID    uint32
	Recipient    *gethCommon.Address `rlp:"nil"`
	Amount       *big.Int
	Payload      []byte
	V            *big.Int
	R            *big.Int
	S            *big.Int
}

type stakingTxData struct {
	Directive    uint8
	StakeMsg     rlp.RawValue
	AccountNonce uint64
	Price        *big.Int
	GasLimit     uint64
	V            *big.Int
	R            *big.Int
	S            *big.Int
}

type delegateData struct {
	DelegatorAddress gethCommon.Address
	ValidatorAddress gethCommon.Address
	Amount           *big.Int
}

type collectRewardsData struct {
	DelegatorAddress gethCommon.Address
}

// Parse decodes a raw signed transaction given as bytes or a 0x hex string.
// Both plain and staking (Delegate, Undelegate, CollectRewards) encodings are
// supported.
func Parse(raw interface{}) (*common.Transaction, error) {
	payload, err := toBytes(raw)
	if err != nil {
		return nil, err
	}

	var fields []rlp.RawValue
	if err := rlp.DecodeBytes(payload, &fields); err != nil {
		return nil, errors.Wrap(ErrInvalidTransaction, err.Error())
	}

	var tx *common.Transaction
	switch len(fields) {
	case plainTxFields:
		tx, err = parsePlain(payload)
	case stakingTxFields:
		tx, err = parseStaking(payload)
	default:
		return nil, errors.Wrapf(ErrInvalidTransaction, "unexpected field count %d", len(fields))
	}
	if err != nil {
		return nil, err
	}
	tx.Hash = crypto.Keccak256Hash(payload).Hex()
	return tx, nil
}

func toBytes(raw interface{}) ([]byte, error) {
	switch v := raw.(type) {
	case []byte:
		return v, nil
	case string:
		if !strings.HasPrefix(v, "0x") {
			v = "0x" + v
		}
		b, err := hexutil.Decode(v)
		if err != nil {
			return nil, errors.Wrap(ErrInvalidTransaction, err.Error())
		}
		return b, nil
	default:
		return nil, errors.Wrapf(ErrInvalidTransaction, "unsupported raw type %T", raw)
	}
}

func parsePlain(payload []byte) (*common.Transaction, error) {
	var data plainTxData
	if err := rlp.DecodeBytes(payload, &data); err != nil {
		return nil, errors.Wrap(ErrInvalidTransaction, err.Error())
	}

	tx := &common.Transaction{
		Nonce:     data.AccountNonce,
		GasPrice:  data.Price,
		GasLimit:  new(big.Int).SetUint64(data.GasLimit),
		ShardID:   data.ShardID,
		ToShardID: data.ToShardID,
		Value:     data.Amount,
		Data:      hexutil.Encode(data.Payload),
	}
	if data.Recipient != nil {
		to := data.Recipient.Hex()
		tx.To = &to
	}

	err := applySignature(tx, data.V, data.R, data.S, func(chainID *big.Int) []interface{} {
		fields := []interface{}{
			data.AccountNonce,
			data.Price,
			data.GasLimit,
			data.ShardID,
			data.ToShardID,
			data.Recipient,
			data.Amount,
			data.Payload,
		}
		if chainID != nil {
			fields = append(fields, chainID, uint(0), uint(0))
		}
		return fields
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

func parseStaking(payload []byte) (*common.Transaction, error) {
	var data stakingTxData
	if err := rlp.DecodeBytes(payload, &data); err != nil {
		return nil, errors.Wrap(ErrInvalidTransaction, err.Error())
	}

	directive := common.Directive(data.Directive)
	var msg common.Msg
	switch directive {
	case common.DirectiveDelegate, common.DirectiveUndelegate:
		var d delegateData
		if err := rlp.DecodeBytes(data.StakeMsg, &d); err != nil {
			return nil, errors.Wrapf(ErrInvalidTransaction, "%s msg: %v", directive, err)
		}
		if directive == common.DirectiveDelegate {
			msg = &common.DelegateMsg{DelegatorAddress: d.DelegatorAddress.Hex(), ValidatorAddress: d.ValidatorAddress.Hex(), Amount: d.Amount}
		} else {
			msg = &common.UndelegateMsg{DelegatorAddress: d.DelegatorAddress.Hex(), ValidatorAddress: d.ValidatorAddress.Hex(), Amount: d.Amount}
		}
	case common.DirectiveCollectRewards:
		var d collectRewardsData
		if err := rlp.DecodeBytes(data.StakeMsg, &d); err != nil {
			return nil, errors.Wrapf(ErrInvalidTransaction, "%s msg: %v", directive, err)
		}
		msg = &common.CollectRewardsMsg{DelegatorAddress: d.DelegatorAddress.Hex()}
	default:
		return nil, errors.Wrapf(ErrUnsupportedDirective, "%s", directive)
	}

	txType := uint64(directive)
	tx := &common.Transaction{
		Type:     &txType,
		Nonce:    data.AccountNonce,
		GasPrice: data.Price,
		GasLimit: new(big.Int).SetUint64(data.GasLimit),
		Value:    new(big.Int),
		Data:     "0x",
		Msg:      msg,
	}

	err := applySignature(tx, data.V, data.R, data.S, func(chainID *big.Int) []interface{} {
		fields := []interface{}{
			data.Directive,
			data.StakeMsg,
			data.AccountNonce,
			data.Price,
			data.GasLimit,
		}
		if chainID != nil {
			fields = append(fields, chainID, uint(0), uint(0))
		}
		return fields
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// applySignature fills chain id, signature values and the recovered sender.
// Unsigned transactions (r == s == 0) are left without a sender.
func applySignature(tx *common.Transaction, v, r, s *big.Int, signingFields func(chainID *big.Int) []interface{}) error {
	if r == nil || s == nil || v == nil || (r.Sign() == 0 && s.Sign() == 0) {
		if v != nil && v.Sign() != 0 {
			tx.ChainID = new(big.Int).Set(v)
		}
		return nil
	}

	var chainID *big.Int
	var recovery *big.Int
	switch {
	case v.Cmp(big.NewInt(35)) >= 0:
		// v = chainId * 2 + 35 + recovery
		chainID = new(big.Int).Sub(v, big.NewInt(35))
		chainID.Rsh(chainID, 1)
		recovery = new(big.Int).Sub(v, big.NewInt(35))
		recovery.Sub(recovery, new(big.Int).Lsh(chainID, 1))
	case v.Cmp(big.NewInt(27)) == 0 || v.Cmp(big.NewInt(28)) == 0:
		recovery = new(big.Int).Sub(v, big.NewInt(27))
	default:
		return errors.Wrapf(ErrInvalidSignature, "unexpected v %s", v)
	}

	rHex := hexutil.Encode(gethCommon.LeftPadBytes(r.Bytes(), 32))
	sHex := hexutil.Encode(gethCommon.LeftPadBytes(s.Bytes(), 32))
	vValue := v.Uint64()
	tx.R, tx.S, tx.V = &rHex, &sHex, &vValue
	tx.ChainID = chainID

	if !crypto.ValidateSignatureValues(byte(recovery.Uint64()), r, s, false) {
		return errors.Wrap(ErrInvalidSignature, "signature values out of range")
	}

	encoded, err := rlp.EncodeToBytes(signingFields(chainID))
	if err != nil {
		return errors.Wrap(err, "failed to encode signing payload")
	}
	hash := crypto.Keccak256(encoded)

	sig := make([]byte, crypto.SignatureLength)
	copy(sig[32-len(r.Bytes()):32], r.Bytes())
	copy(sig[64-len(s.Bytes()):64], s.Bytes())
	sig[64] = byte(recovery.Uint64())

	pub, err := crypto.SigToPub(hash, sig)
	if err != nil {
		return errors.Wrap(ErrInvalidSignature, err.Error())
	}
	from := crypto.PubkeyToAddress(*pub).Hex()
	tx.From = &from
	return nil
}
