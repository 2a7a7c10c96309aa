package common

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	gethCommon "github.com/ethereum/go-ethereum/common"
)

// Bech32HRP is the human readable prefix of bech32 encoded addresses.
const Bech32HRP = "one"

var (
	ErrInvalidAddress     = errors.New("invalid address")
	ErrBadAddressChecksum = errors.New("bad address checksum")
)

var mixedCaseHex = regexp.MustCompile(`([A-F].*[a-f])|([a-f].*[A-F])`)

// Address is the same 20 bytes in the three encodings callers may hand us.
type Address struct {
	Basic    string `json:"basic"`
	Checksum string `json:"checksum"`
	Bech32   string `json:"bech32"`
}

// GetAddress accepts a 0x hex address or a bech32 "one1..." address. Mixed case
// hex input must carry a valid checksum.
func GetAddress(value string) (*Address, error) {
	var addr gethCommon.Address
	switch {
	case strings.HasPrefix(strings.ToLower(value), Bech32HRP+"1"):
		decoded, err := fromBech32(value)
		if err != nil {
			return nil, err
		}
		addr = decoded
	case gethCommon.IsHexAddress(value):
		value = "0x" + strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
		if mixedCaseHex.MatchString(value[2:]) {
			mixed, err := gethCommon.NewMixedcaseAddressFromString(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, value)
			}
			if !mixed.ValidChecksum() {
				return nil, fmt.Errorf("%w: %s", ErrBadAddressChecksum, value)
			}
		}
		addr = gethCommon.HexToAddress(value)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidAddress, value)
	}

	bech, err := ToBech32(addr)
	if err != nil {
		return nil, err
	}
	return &Address{
		Basic:    strings.ToLower(addr.Hex()),
		Checksum: addr.Hex(),
		Bech32:   bech,
	}, nil
}

func ToBech32(addr gethCommon.Address) (string, error) {
	conv, err := bech32.ConvertBits(addr.Bytes(), 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("failed to convert address to bech32: %w", err)
	}
	return bech32.Encode(Bech32HRP, conv)
}

func fromBech32(value string) (gethCommon.Address, error) {
	hrp, data, err := bech32.Decode(value)
	if err != nil {
		return gethCommon.Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if hrp != Bech32HRP {
		return gethCommon.Address{}, fmt.Errorf("%w: unexpected prefix %q", ErrInvalidAddress, hrp)
	}
	conv, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return gethCommon.Address{}, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	if len(conv) != gethCommon.AddressLength {
		return gethCommon.Address{}, fmt.Errorf("%w: decoded %d bytes", ErrInvalidAddress, len(conv))
	}
	return gethCommon.BytesToAddress(conv), nil
}
