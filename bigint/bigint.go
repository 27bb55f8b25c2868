// Package bigint implements the arbitrary-precision signed integer used
// everywhere an on-chain amount, nonce, or chain id needs more range than
// a machine word. It wraps math/big.Int with the decimal-text and
// endian-byte conventions the transaction builders depend on.
//
// math/big.Int is stdlib by choice, not by default: go-ethereum itself
// builds every chain-id/nonce/value field on *big.Int, so this follows
// that same idiom rather than avoiding a library for one.
package bigint

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ledgerflow/walletcore/walleterr"
)

// Int is a signed, arbitrary-precision integer.
type Int struct {
	v big.Int
}

// Zero returns a new Int with value 0.
func Zero() *Int { return &Int{} }

// FromInt64 builds an Int from a signed 64-bit value.
func FromInt64(v int64) *Int {
	i := &Int{}
	i.v.SetInt64(v)
	return i
}

// FromUint64 builds an Int from an unsigned 64-bit value.
func FromUint64(v uint64) *Int {
	i := &Int{}
	i.v.SetUint64(v)
	return i
}

// FromDecimalString parses a base-10 string into an Int. It rejects empty
// strings, surrounding or embedded whitespace, non-digit characters, and
// fractional values (a decimal point anywhere in the string) — the same
// rules multy_core applies before accepting an Amount literal.
func FromDecimalString(s string) (*Int, error) {
	const op = "bigint.FromDecimalString"
	if s == "" {
		return nil, walleterr.New(walleterr.InvalidArgument, op, "decimal string is empty")
	}
	body := s
	if body[0] == '+' || body[0] == '-' {
		body = body[1:]
	}
	if body == "" {
		return nil, walleterr.New(walleterr.InvalidArgument, op, "decimal string has no digits")
	}
	for _, r := range body {
		if r < '0' || r > '9' {
			if r == '.' {
				return nil, walleterr.New(walleterr.InvalidArgument, op, "fractional values are not supported")
			}
			return nil, walleterr.New(walleterr.InvalidArgument, op, fmt.Sprintf("invalid digit %q", r))
		}
	}
	i := &Int{}
	if _, ok := i.v.SetString(s, 10); !ok {
		return nil, walleterr.New(walleterr.InvalidArgument, op, "not a valid decimal integer")
	}
	return i, nil
}

// Endian selects byte order for FromBytes/ToBytes.
type Endian int

const (
	BigEndian Endian = iota
	LittleEndian
)

// FromBytes interprets data as the unsigned magnitude of a non-negative
// Int, in the given byte order.
func FromBytes(data []byte, endian Endian) *Int {
	buf := data
	if endian == LittleEndian {
		buf = reversed(data)
	}
	i := &Int{}
	i.v.SetBytes(buf)
	return i
}

func reversed(data []byte) []byte {
	out := make([]byte, len(data))
	for idx, b := range data {
		out[len(data)-1-idx] = b
	}
	return out
}

// DecimalString renders the canonical decimal text of the value.
func (i *Int) DecimalString() string {
	return i.v.String()
}

// Int64 exports the value as a signed 64-bit integer, failing with
// walleterr.OutOfRange if it does not fit.
func (i *Int) Int64() (int64, error) {
	if !i.v.IsInt64() {
		return 0, walleterr.New(walleterr.OutOfRange, "bigint.Int64", "value does not fit in int64")
	}
	return i.v.Int64(), nil
}

// Uint64 exports the value as an unsigned 64-bit integer, failing with
// walleterr.OutOfRange if negative or too large.
func (i *Int) Uint64() (uint64, error) {
	if i.v.Sign() < 0 {
		return 0, walleterr.New(walleterr.OutOfRange, "bigint.Uint64", "value is negative")
	}
	if !i.v.IsUint64() {
		return 0, walleterr.New(walleterr.OutOfRange, "bigint.Uint64", "value does not fit in uint64")
	}
	return i.v.Uint64(), nil
}

// ToBytes exports the unsigned magnitude of the value in the given byte
// order. The sign is discarded; callers that need it should check Sign
// first.
func (i *Int) ToBytes(endian Endian) []byte {
	magnitude := new(big.Int).Abs(&i.v)
	buf := magnitude.Bytes()
	if endian == LittleEndian {
		return reversed(buf)
	}
	return buf
}

// Sign returns -1, 0, or +1.
func (i *Int) Sign() int { return i.v.Sign() }

// Cmp compares i to other the way big.Int.Cmp does.
func (i *Int) Cmp(other *Int) int { return i.v.Cmp(&other.v) }

// Add returns i + other as a new Int.
func (i *Int) Add(other *Int) *Int {
	r := &Int{}
	r.v.Add(&i.v, &other.v)
	return r
}

// Sub returns i - other as a new Int.
func (i *Int) Sub(other *Int) *Int {
	r := &Int{}
	r.v.Sub(&i.v, &other.v)
	return r
}

// Mul returns i * other as a new Int.
func (i *Int) Mul(other *Int) *Int {
	r := &Int{}
	r.v.Mul(&i.v, &other.v)
	return r
}

// AddScalar returns i + scalar as a new Int.
func (i *Int) AddScalar(scalar int64) *Int { return i.Add(FromInt64(scalar)) }

// MulScalar returns i * scalar as a new Int.
func (i *Int) MulScalar(scalar int64) *Int { return i.Mul(FromInt64(scalar)) }

// Big exposes the underlying math/big.Int for callers (e.g. RLP encoding)
// that need to interoperate with the stdlib/ecosystem big-integer type.
func (i *Int) Big() *big.Int { return new(big.Int).Set(&i.v) }

// FromBig wraps an existing math/big.Int.
func FromBig(v *big.Int) *Int {
	i := &Int{}
	i.v.Set(v)
	return i
}

// String implements fmt.Stringer.
func (i *Int) String() string { return i.DecimalString() }

// IsZero reports whether the value is exactly zero.
func (i *Int) IsZero() bool { return i.v.Sign() == 0 }

// ParseHexOrDecimal accepts a "0x"-prefixed hex string or a plain decimal
// string, as the JSON front door does for big-integer property values.
func ParseHexOrDecimal(s string) (*Int, error) {
	const op = "bigint.ParseHexOrDecimal"
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "0x") || strings.HasPrefix(trimmed, "0X") {
		i := &Int{}
		if _, ok := i.v.SetString(trimmed[2:], 16); !ok {
			return nil, walleterr.New(walleterr.InvalidArgument, op, "not a valid hex integer")
		}
		return i, nil
	}
	return FromDecimalString(trimmed)
}
