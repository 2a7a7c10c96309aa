package formatter

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/holiman/uint256"
)

// FormatFunc coerces one raw field value into its typed form.
type FormatFunc func(value interface{}) (interface{}, error)

var (
	ErrMissingValue = errors.New("missing value")
	ErrInvalidValue = errors.New("invalid value")
)

const maxSafeInteger = 1<<53 - 1

var (
	hexPattern     = regexp.MustCompile(`^0x[0-9a-fA-F]*$`)
	decimalPattern = regexp.MustCompile(`^[0-9]+$`)
)

func isNull(value interface{}) bool {
	if value == nil {
		return true
	}
	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return v.IsNil()
	}
	return false
}

// AllowNull returns nullValue for null input and applies format otherwise.
func AllowNull(format FormatFunc, nullValue interface{}) FormatFunc {
	return func(value interface{}) (interface{}, error) {
		if isNull(value) {
			return nullValue, nil
		}
		return format(value)
	}
}

func ArrayOf(format FormatFunc) FormatFunc {
	return func(value interface{}) (interface{}, error) {
		v := reflect.ValueOf(value)
		if value == nil || v.Kind() != reflect.Slice {
			return nil, fmt.Errorf("%w: not an array", ErrInvalidValue)
		}
		result := make([]interface{}, v.Len())
		for i := 0; i < v.Len(); i++ {
			item, err := format(v.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}
			result[i] = item
		}
		return result, nil
	}
}

func toBigInt(value interface{}) (*big.Int, error) {
	switch v := value.(type) {
	case nil:
		return nil, fmt.Errorf("%w: invalid BigNumber value", ErrMissingValue)
	case *big.Int:
		if v == nil {
			return nil, fmt.Errorf("%w: invalid BigNumber value", ErrMissingValue)
		}
		return new(big.Int).Set(v), nil
	case big.Int:
		return new(big.Int).Set(&v), nil
	case *hexutil.Big:
		if v == nil {
			return nil, fmt.Errorf("%w: invalid BigNumber value", ErrMissingValue)
		}
		return new(big.Int).Set(v.ToInt()), nil
	case hexutil.Big:
		return new(big.Int).Set(v.ToInt()), nil
	case hexutil.Uint64:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint64:
		return new(big.Int).SetUint64(v), nil
	case uint32:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint8:
		return new(big.Int).SetUint64(uint64(v)), nil
	case uint:
		return new(big.Int).SetUint64(uint64(v)), nil
	case int:
		return big.NewInt(int64(v)), nil
	case int64:
		return big.NewInt(v), nil
	case int32:
		return big.NewInt(int64(v)), nil
	case float64:
		if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
			return nil, fmt.Errorf("%w: non-integer number %v", ErrInvalidValue, v)
		}
		if math.Abs(v) > maxSafeInteger {
			return nil, fmt.Errorf("%w: number %v overflows safe integer range", ErrInvalidValue, v)
		}
		return big.NewInt(int64(v)), nil
	case json.Number:
		return parseBigString(string(v))
	case string:
		return parseBigString(v)
	case []byte:
		return new(big.Int).SetBytes(v), nil
	default:
		// named integer types such as common.Directive
		rv := reflect.ValueOf(value)
		switch rv.Kind() {
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return new(big.Int).SetUint64(rv.Uint()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return big.NewInt(rv.Int()), nil
		}
		return nil, fmt.Errorf("%w: invalid BigNumber value %v (%T)", ErrInvalidValue, value, value)
	}
}

// parseBigString accepts 0x-prefixed hex or decimal, optionally negative.
// Leading zeros are allowed since nodes pad some quantities (block nonce).
func parseBigString(s string) (*big.Int, error) {
	body := strings.TrimPrefix(s, "-")
	negative := len(body) != len(s)

	var n *big.Int
	var ok bool
	switch {
	case hexPattern.MatchString(body):
		if len(body) == 2 {
			n, ok = new(big.Int), true
		} else {
			n, ok = new(big.Int).SetString(body[2:], 16)
		}
	case decimalPattern.MatchString(body):
		n, ok = new(big.Int).SetString(body, 10)
	}
	if !ok {
		return nil, fmt.Errorf("%w: invalid BigNumber string %q", ErrInvalidValue, s)
	}
	if negative {
		n.Neg(n)
	}
	return n, nil
}

// BigNumber coerces to *big.Int.
func BigNumber(value interface{}) (interface{}, error) {
	return toBigInt(value)
}

// Number coerces to a non-negative uint64.
func Number(value interface{}) (interface{}, error) {
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 || !n.IsUint64() {
		return nil, fmt.Errorf("%w: number %s out of range", ErrInvalidValue, n.String())
	}
	return n.Uint64(), nil
}

// Type coerces a transaction type, where null and "0x" mean legacy (0).
func Type(value interface{}) (interface{}, error) {
	if isNull(value) || value == "0x" {
		return uint64(0), nil
	}
	return Number(value)
}

// Difficulty is a number when it fits a safe integer and nil otherwise.
func Difficulty(value interface{}) (interface{}, error) {
	if isNull(value) {
		return nil, nil
	}
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 || !n.IsUint64() || n.Uint64() > maxSafeInteger {
		return nil, nil
	}
	return n.Uint64(), nil
}

func hexString(value interface{}, strict bool) (string, error) {
	s, ok := value.(string)
	if !ok {
		if b, isBytes := value.([]byte); isBytes {
			return hexutil.Encode(b), nil
		}
		if value == nil {
			return "", fmt.Errorf("%w: invalid hex value", ErrMissingValue)
		}
		return "", fmt.Errorf("%w: invalid hex value %v (%T)", ErrInvalidValue, value, value)
	}
	if !strict && !strings.HasPrefix(s, "0x") {
		s = "0x" + s
	}
	if !hexPattern.MatchString(s) {
		return "", fmt.Errorf("%w: invalid hex string %q", ErrInvalidValue, s)
	}
	return strings.ToLower(s), nil
}

// Hex coerces any hex string to lower case; a missing 0x prefix is added.
func Hex(value interface{}) (interface{}, error) {
	return hexString(value, false)
}

// Hash requires a 32 byte hex string.
func Hash(value interface{}) (interface{}, error) {
	s, err := hexString(value, true)
	if err != nil {
		return nil, err
	}
	if len(s) != 66 {
		return nil, fmt.Errorf("%w: invalid hash %q", ErrInvalidValue, s)
	}
	return s, nil
}

// Data accepts hex strings of any length, including odd ones.
func Data(value interface{}) (interface{}, error) {
	return hexString(value, true)
}

// StrictData is Data restricted to whole bytes.
func StrictData(value interface{}) (interface{}, error) {
	s, err := hexString(value, true)
	if err != nil {
		return nil, err
	}
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd-length data %q", ErrInvalidValue, s)
	}
	return s, nil
}

// Uint256 encodes an unsigned quantity as a 32 byte hex string.
func Uint256(value interface{}) (interface{}, error) {
	n, err := toBigInt(value)
	if err != nil {
		return nil, err
	}
	if n.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative uint256 %s", ErrInvalidValue, n.String())
	}
	v, overflow := uint256.FromBig(n)
	if overflow {
		return nil, fmt.Errorf("%w: value %s exceeds 32 bytes", ErrInvalidValue, n.String())
	}
	b := v.Bytes32()
	return hexutil.Encode(b[:]), nil
}
