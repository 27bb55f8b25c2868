package account

import (
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/walleterr"
)

// EthereumAccount derives its address by Keccak-256 hashing the
// uncompressed public key (sans its 0x04 prefix) and keeping the last 20
// bytes (spec.md §4.6).
type EthereumAccount struct {
	privateKey *primitive.PrivateKey
	path       hdpath.Path
	netType    NetType
}

// NewEthereumAccount wraps an already-derived private key as an Ethereum
// account.
func NewEthereumAccount(priv *primitive.PrivateKey, path hdpath.Path, netType NetType) *EthereumAccount {
	return &EthereumAccount{privateKey: priv, path: path, netType: netType}
}

// NewEthereumAccountFromHex parses a 64-hex-character (no-prefix) private
// key, the format spec.md §6 names for Ethereum account serialization.
func NewEthereumAccountFromHex(hexKey string, netType NetType) (*EthereumAccount, error) {
	raw, err := codec.DecodeHex(hexKey)
	if err != nil {
		return nil, err
	}
	priv, err := primitive.PrivateKeyFromBytes(raw)
	if err != nil {
		return nil, err
	}
	return &EthereumAccount{privateKey: priv, netType: netType}, nil
}

// EthereumAddress derives the 20-byte address from an uncompressed
// public key.
func EthereumAddress(pub *primitive.PublicKey) [20]byte {
	uncompressed := pub.Uncompressed()
	digest := primitive.Keccak256(uncompressed[1:])
	var addr [20]byte
	copy(addr[:], digest[12:])
	return addr
}

// Address renders the lower-case hex address, no "0x" prefix — matching
// the no-prefix hex convention spec.md §6 uses for this chain's own
// private-key serialization.
func (a *EthereumAccount) Address() (string, error) {
	addr := EthereumAddress(a.privateKey.PublicKey())
	return codec.EncodeHex(addr[:]), nil
}

// PrivateKey returns the account's private key.
func (a *EthereumAccount) PrivateKey() *primitive.PrivateKey { return a.privateKey }

// PublicKey returns the account's public key.
func (a *EthereumAccount) PublicKey() *primitive.PublicKey { return a.privateKey.PublicKey() }

// Path returns the BIP44 derivation path this account was derived at.
func (a *EthereumAccount) Path() hdpath.Path { return a.path }

// BlockchainType returns {Ethereum, netType}, where netType here doubles
// as the EIP-155 chain id selector the transaction builder consumes.
func (a *EthereumAccount) BlockchainType() BlockchainType {
	return BlockchainType{Blockchain: Ethereum, NetType: a.netType}
}

// ValidateEthereumAddress checks that addr is 20 bytes of hex, optionally
// "0x"-prefixed.
func ValidateEthereumAddress(addr string) error {
	raw, err := codec.DecodeHex(addr)
	if err != nil {
		return walleterr.Wrap(walleterr.InvalidAddress, "account.ValidateEthereumAddress", "malformed address", err)
	}
	if len(raw) != 20 {
		return walleterr.New(walleterr.InvalidAddress, "account.ValidateEthereumAddress", "address is not 20 bytes")
	}
	return nil
}

// EthereumLeafFactory adapts a derived leaf extended key into an
// EthereumAccount, for use as an HDAccount's LeafFactory.
func EthereumLeafFactory(netType NetType) LeafFactory {
	return func(leafKey *hdpath.ExtendedKey, path hdpath.Path) (Account, error) {
		priv, err := leafKey.PrivateKey()
		if err != nil {
			return nil, err
		}
		return NewEthereumAccount(priv, path, netType), nil
	}
}
