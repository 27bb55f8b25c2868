// Package hdpath implements BIP32/BIP44 hierarchical-deterministic key
// derivation. It wraps github.com/btcsuite/btcd/btcutil/hdkeychain for the
// actual child-key-derivation math (master key from seed, hardened and
// normal child steps, extended-key serialization) and exposes a typed
// path representation instead of raw "m/44'/0'/0'/0/0" strings.
package hdpath

import (
	"strconv"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"

	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/walleterr"
)

// HardenedOffset is added to an index to mark it hardened (BIP32 §Extended
// keys); btcutil/hdkeychain calls the same constant HardenedKeyStart.
const HardenedOffset = hdkeychain.HardenedKeyStart

// Purpose is the fixed BIP44 first path component.
const Purpose uint32 = 44

// Hardened returns index with the hardened bit set.
func Hardened(index uint32) uint32 { return index + HardenedOffset }

// IsHardened reports whether index carries the hardened bit.
func IsHardened(index uint32) bool { return index >= HardenedOffset }

// Path is an ordered sequence of derivation indices, root first, not
// including the leading "m".
type Path []uint32

// BIP44 builds the standard m/44'/coinType'/account'/change/index path
// (spec.md §4.2): the first three components are hardened, the last two
// are not.
func BIP44(coinType, account, change, index uint32) Path {
	return Path{Hardened(Purpose), Hardened(coinType), Hardened(account), change, index}
}

// Parse reads a "m/44'/0'/0'/0/0" style path string. Both "'" and "h"
// suffixes mark a hardened component.
func Parse(s string) (Path, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, "/")
	if len(parts) == 0 {
		return nil, walleterr.New(walleterr.InvalidArgument, "hdpath.Parse", "empty path")
	}
	if parts[0] == "m" || parts[0] == "M" {
		parts = parts[1:]
	}
	path := make(Path, 0, len(parts))
	for _, part := range parts {
		if part == "" {
			continue
		}
		hardened := false
		if strings.HasSuffix(part, "'") || strings.HasSuffix(part, "h") || strings.HasSuffix(part, "H") {
			hardened = true
			part = part[:len(part)-1]
		}
		n, err := strconv.ParseUint(part, 10, 32)
		if err != nil {
			return nil, walleterr.Wrap(walleterr.InvalidArgument, "hdpath.Parse", "invalid path component "+part, err)
		}
		index := uint32(n)
		if hardened {
			index = Hardened(index)
		}
		path = append(path, index)
	}
	return path, nil
}

// String renders the path back to "m/44'/0'/0'/0/0" form.
func (p Path) String() string {
	var b strings.Builder
	b.WriteString("m")
	for _, index := range p {
		b.WriteString("/")
		if IsHardened(index) {
			b.WriteString(strconv.FormatUint(uint64(index-HardenedOffset), 10))
			b.WriteString("'")
		} else {
			b.WriteString(strconv.FormatUint(uint64(index), 10))
		}
	}
	return b.String()
}

// ExtendedKey wraps a BIP32 extended key (private or public, depending on
// how it was derived) and the network it belongs to.
type ExtendedKey struct {
	key *hdkeychain.ExtendedKey
}

// MasterKeyFromSeed derives the master extended private key from a BIP32
// seed (spec.md §8 scenario 1's "seed" input), scoped to net — the
// HMAC-SHA512("Bitcoin seed", seed) split into the master chain code and
// private key.
func MasterKeyFromSeed(seed []byte, net *chaincfg.Params) (*ExtendedKey, error) {
	key, err := hdkeychain.NewMaster(seed, net)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.BadEntropy, "hdpath.MasterKeyFromSeed", "failed to derive master key", err)
	}
	return &ExtendedKey{key: key}, nil
}

// Derive walks path component by component from k, returning the leaf
// extended key.
func (k *ExtendedKey) Derive(path Path) (*ExtendedKey, error) {
	current := k.key
	for _, index := range path {
		child, err := current.Derive(index)
		if err != nil {
			return nil, walleterr.Wrap(walleterr.General, "hdpath.Derive", "child key derivation failed", err)
		}
		current = child
	}
	return &ExtendedKey{key: current}, nil
}

// PrivateKey extracts the underlying secp256k1 private key. Fails if k was
// neutered (public-only).
func (k *ExtendedKey) PrivateKey() (*primitive.PrivateKey, error) {
	if !k.key.IsPrivate() {
		return nil, walleterr.New(walleterr.InvalidArgument, "hdpath.ExtendedKey.PrivateKey", "extended key has been neutered to public-only")
	}
	ecPriv, err := k.key.ECPrivKey()
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "hdpath.ExtendedKey.PrivateKey", "failed to materialize private key", err)
	}
	return primitive.PrivateKeyFromBytes(ecPriv.Serialize())
}

// PublicKey extracts the underlying secp256k1 public key.
func (k *ExtendedKey) PublicKey() (*primitive.PublicKey, error) {
	ecPub, err := k.key.ECPubKey()
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "hdpath.ExtendedKey.PublicKey", "failed to materialize public key", err)
	}
	return primitive.PublicKeyFromCompressed(ecPub.SerializeCompressed())
}

// Neuter strips the private key, leaving a public-only extended key — the
// same operation BIP32 calls "neutering".
func (k *ExtendedKey) Neuter() (*ExtendedKey, error) {
	pub, err := k.key.Neuter()
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "hdpath.ExtendedKey.Neuter", "failed to neuter extended key", err)
	}
	return &ExtendedKey{key: pub}, nil
}

// String renders the extended key in its standard Base58Check form
// ("xprv..." or "xpub...", depending on network and whether it still
// carries a private key).
func (k *ExtendedKey) String() string {
	return k.key.String()
}
