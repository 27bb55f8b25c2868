package properties

import (
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/primitive"
)

// The five value kinds the wallet core's properties come in (spec.md
// §4.4): a 32-bit integer, an arbitrary-precision amount, a string, a raw
// byte string, and a private key. These are thin Bind wrappers so call
// sites read "BindAmount(props, "fee", Required, nil)" instead of
// repeating the generic instantiation and kind label everywhere.

// BindInt32 binds an int32-valued property, e.g. a ref_block_num or a
// derivation index.
func BindInt32(p *Properties, name string, trait Trait, predicate func(int32) error) *Property[int32] {
	return Bind[int32](p, name, "int32", trait, predicate)
}

// BindAmount binds an arbitrary-precision integer property, used for
// transaction amounts and fees.
func BindAmount(p *Properties, name string, trait Trait, predicate func(*bigint.Int) error) *Property[*bigint.Int] {
	return Bind[*bigint.Int](p, name, "BigInt", trait, predicate)
}

// BindString binds a string-valued property, e.g. an address or a memo.
func BindString(p *Properties, name string, trait Trait, predicate func(string) error) *Property[string] {
	return Bind[string](p, name, "string", trait, predicate)
}

// BindByteString binds a raw byte-string property, e.g. a script or a
// chain id.
func BindByteString(p *Properties, name string, trait Trait, predicate func([]byte) error) *Property[[]byte] {
	return Bind[[]byte](p, name, "ByteString", trait, predicate)
}

// BindPrivateKey binds a private-key-valued property, used by signing
// sources.
func BindPrivateKey(p *Properties, name string, trait Trait, predicate func(*primitive.PrivateKey) error) *Property[*primitive.PrivateKey] {
	return Bind[*primitive.PrivateKey](p, name, "PrivateKey", trait, predicate)
}
