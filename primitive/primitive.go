// Package primitive wraps the external cryptographic primitives the core
// treats as peripheral (spec.md §1): ECDSA sign/verify and key
// (de)compression come from github.com/btcsuite/btcd/btcec/v2 and its
// ecdsa subpackage, recoverable signing and Keccak-256 come from
// github.com/ethereum/go-ethereum/crypto, RIPEMD160-over-SHA256 ("Hash160")
// comes from github.com/btcsuite/btcd/btcutil, and SHA-256d comes from
// github.com/btcsuite/btcd/chaincfg/chainhash. Nothing above this package
// touches a curve or a hash function directly.
package primitive

import (
	"crypto/sha256"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcutil"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	ethcrypto "github.com/ethereum/go-ethereum/crypto"
	"golang.org/x/crypto/ripemd160" //nolint:staticcheck // EOS/Graphene key checksums are defined over raw RIPEMD160, not Hash160.

	"github.com/ledgerflow/walletcore/walleterr"
)

// PrivateKey wraps a secp256k1 scalar.
type PrivateKey struct {
	key *btcec.PrivateKey
}

// PrivateKeyFromBytes parses a 32-byte big-endian scalar.
func PrivateKeyFromBytes(data []byte) (*PrivateKey, error) {
	if len(data) != 32 {
		return nil, walleterr.New(walleterr.InvalidArgument, "primitive.PrivateKeyFromBytes", "private key must be exactly 32 bytes")
	}
	key, _ := btcec.PrivKeyFromBytes(data)
	return &PrivateKey{key: key}, nil
}

// Bytes returns the 32-byte big-endian scalar.
func (k *PrivateKey) Bytes() []byte {
	return k.key.Serialize()
}

// PublicKey derives the corresponding public key.
func (k *PrivateKey) PublicKey() *PublicKey {
	return &PublicKey{key: k.key.PubKey()}
}

// Sign produces a DER-encoded, low-S canonical ECDSA signature over a
// 32-byte digest — the format Bitcoin's P2PKH scriptSig embeds.
func (k *PrivateKey) Sign(hash [32]byte) []byte {
	sig := ecdsa.Sign(k.key, hash[:])
	return sig.Serialize()
}

// SignRecoverable produces a 65-byte [R(32) || S(32) || V(1)] signature
// with an explicit recovery id in {0, 1}, low-S canonical — the format
// Ethereum and EOS both build their wire signatures from.
func (k *PrivateKey) SignRecoverable(hash [32]byte) ([65]byte, error) {
	var out [65]byte
	sig, err := ethcrypto.Sign(hash[:], k.key.ToECDSA())
	if err != nil {
		return out, walleterr.Wrap(walleterr.General, "primitive.SignRecoverable", "ecdsa sign failed", err)
	}
	copy(out[:], sig)
	return out, nil
}

// PublicKey wraps a secp256k1 curve point.
type PublicKey struct {
	key *btcec.PublicKey
}

// PublicKeyFromCompressed parses a 33-byte compressed public key.
func PublicKeyFromCompressed(data []byte) (*PublicKey, error) {
	key, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "primitive.PublicKeyFromCompressed", "invalid compressed public key", err)
	}
	return &PublicKey{key: key}, nil
}

// PublicKeyFromUncompressed parses a 65-byte (0x04-prefixed) uncompressed
// public key, decompressing it onto the curve.
func PublicKeyFromUncompressed(data []byte) (*PublicKey, error) {
	key, err := btcec.ParsePubKey(data)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "primitive.PublicKeyFromUncompressed", "invalid uncompressed public key", err)
	}
	return &PublicKey{key: key}, nil
}

// Compressed renders the 33-byte compressed form (0x02/0x03 prefix).
func (p *PublicKey) Compressed() []byte {
	return p.key.SerializeCompressed()
}

// Uncompressed renders the 65-byte form (0x04 prefix + X + Y).
func (p *PublicKey) Uncompressed() []byte {
	return p.key.SerializeUncompressed()
}

// Verify checks an ECDSA signature (DER-encoded) over a 32-byte digest.
func (p *PublicKey) Verify(hash [32]byte, derSig []byte) bool {
	sig, err := ecdsa.ParseDERSignature(derSig)
	if err != nil {
		return false
	}
	return sig.Verify(hash[:], p.key)
}

// RecoverPublicKey recovers the signer's public key from a 65-byte
// recoverable signature and the digest it was produced over.
func RecoverPublicKey(hash [32]byte, sig [65]byte) (*PublicKey, error) {
	pub, err := ethcrypto.SigToPub(hash[:], sig[:])
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "primitive.RecoverPublicKey", "failed to recover public key", err)
	}
	key, err := btcec.ParsePubKey(ethcrypto.FromECDSAPub(pub))
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "primitive.RecoverPublicKey", "failed to reparse recovered public key", err)
	}
	return &PublicKey{key: key}, nil
}

// SHA256 hashes data once.
func SHA256(data []byte) [32]byte {
	return sha256.Sum256(data)
}

// SHA256d hashes data twice (double SHA-256), the digest Bitcoin uses for
// transaction ids and sighash preimages.
func SHA256d(data []byte) [32]byte {
	return chainhash.DoubleHashH(data)
}

// Hash160 computes RIPEMD160(SHA256(data)), the digest Bitcoin addresses
// are built from.
func Hash160(data []byte) [20]byte {
	var out [20]byte
	copy(out[:], btcutil.Hash160(data))
	return out
}

// RIPEMD160 computes the bare RIPEMD160 digest (no SHA-256 pre-image
// step), the checksum EOS and Graphene-style public key strings embed.
func RIPEMD160(data []byte) [20]byte {
	h := ripemd160.New()
	h.Write(data)
	var out [20]byte
	copy(out[:], h.Sum(nil))
	return out
}

// Keccak256 hashes data with Keccak-256 (not NIST SHA3-256), the digest
// Ethereum addresses and EIP-155 signing hashes are built from.
func Keccak256(data ...[]byte) [32]byte {
	var out [32]byte
	copy(out[:], ethcrypto.Keccak256(data...))
	return out
}
