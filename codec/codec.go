// Package codec bridges the text encodings the core needs (hex,
// base58-check, base32) to concrete implementations: base58-check comes
// from github.com/btcsuite/btcd/btcutil/base58, hex and base32 from the
// standard library (go-ethereum's own hexutil wraps the same
// encoding/hex underneath, and no dependency in this module's stack
// ships a base32 codec distinct from encoding/base32).
package codec

import (
	"encoding/base32"
	"encoding/hex"
	"strings"

	"github.com/btcsuite/btcd/btcutil/base58"

	"github.com/ledgerflow/walletcore/walleterr"
)

// Kind names a supported byte-string encoding, as accepted by the JSON
// front door's "hex:"/"base32:"/"base58:" value prefixes.
type Kind int

const (
	Hex Kind = iota
	Base32
	Base58Check
)

// EncodeHex renders data as lower-case hex, no prefix.
func EncodeHex(data []byte) string { return hex.EncodeToString(data) }

// DecodeHex parses a hex string, tolerating an optional "0x" prefix.
func DecodeHex(s string) ([]byte, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "codec.DecodeHex", "invalid hex string", err)
	}
	return data, nil
}

// EncodeBase32 renders data with the standard (unpadded) base32 alphabet.
func EncodeBase32(data []byte) string {
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(data)
}

// DecodeBase32 parses standard unpadded base32 text.
func DecodeBase32(s string) ([]byte, error) {
	data, err := base32.StdEncoding.WithPadding(base32.NoPadding).DecodeString(s)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "codec.DecodeBase32", "invalid base32 string", err)
	}
	return data, nil
}

// EncodeBase58Plain renders data as plain Base58, with no embedded
// version byte or checksum — used where the caller supplies its own
// checksum convention (e.g. EOS and Graphene public key strings).
func EncodeBase58Plain(data []byte) string {
	return base58.Encode(data)
}

// DecodeBase58Plain reverses EncodeBase58Plain.
func DecodeBase58Plain(s string) []byte {
	return base58.Decode(s)
}

// EncodeBase58Check renders data as Base58Check: a version-prefixed
// payload with a trailing 4-byte double-SHA256 checksum.
func EncodeBase58Check(versionedPayload []byte) string {
	return base58.CheckEncode(versionedPayload[1:], versionedPayload[0])
}

// DecodeBase58Check reverses EncodeBase58Check, returning the version
// byte and the payload, and fails if the embedded checksum doesn't match.
func DecodeBase58Check(s string) (version byte, payload []byte, err error) {
	payload, version, err = base58.CheckDecode(s)
	if err != nil {
		return 0, nil, walleterr.Wrap(walleterr.InvalidArgument, "codec.DecodeBase58Check", "invalid base58check string", err)
	}
	return version, payload, nil
}

// Decode dispatches to the codec named by a "hex:"/"base32:"/"base58:"
// prefix, defaulting to Hex when no prefix is present — the rule the
// JSON front door applies to byte-string property values.
func Decode(s string) ([]byte, error) {
	switch {
	case strings.HasPrefix(s, "hex:"):
		return DecodeHex(strings.TrimPrefix(s, "hex:"))
	case strings.HasPrefix(s, "base32:"):
		return DecodeBase32(strings.TrimPrefix(s, "base32:"))
	case strings.HasPrefix(s, "base58:"):
		_, payload, err := DecodeBase58Check(strings.TrimPrefix(s, "base58:"))
		return payload, err
	default:
		return DecodeHex(s)
	}
}
