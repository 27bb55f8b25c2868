package account

import (
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/walleterr"
)

// eosWIFVersion is EOS's legacy private key version byte — EOS reused
// Bitcoin's WIF format verbatim before introducing the newer PVT_K1_
// scheme, and multy_core/src/eos never moved off it.
const eosWIFVersion = 0x80

// EosAccount always uses a compressed public key. EOS has no key-derived
// on-chain address: account names are assigned out of band by the chain.
// Address() instead renders the canonical "EOS..." public key string,
// the form a caller registers a chain account name against.
type EosAccount struct {
	privateKey *primitive.PrivateKey
	path       hdpath.Path
	netType    NetType
}

// NewEosAccount wraps an already-derived private key as an EOS account.
func NewEosAccount(priv *primitive.PrivateKey, path hdpath.Path, netType NetType) *EosAccount {
	return &EosAccount{privateKey: priv, path: path, netType: netType}
}

// NewEosAccountFromWIF parses a legacy (0x80-versioned) Base58Check
// private key.
func NewEosAccountFromWIF(wif string, netType NetType) (*EosAccount, error) {
	version, payload, err := codec.DecodeBase58Check(wif)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "account.NewEosAccountFromWIF", "invalid WIF string", err)
	}
	if version != eosWIFVersion {
		return nil, walleterr.New(walleterr.InvalidArgument, "account.NewEosAccountFromWIF", "unrecognized EOS WIF version byte")
	}
	priv, err := primitive.PrivateKeyFromBytes(payload)
	if err != nil {
		return nil, err
	}
	return &EosAccount{privateKey: priv, netType: netType}, nil
}

// PublicKeyString renders the canonical EOS "EOS" + Base58(pubkey ||
// ripemd160(pubkey)[0:4]) public key string.
func PublicKeyString(prefix string, pub *primitive.PublicKey) string {
	compressed := pub.Compressed()
	checksum := primitive.RIPEMD160(compressed)
	payload := append(append([]byte{}, compressed...), checksum[:4]...)
	return prefix + codec.EncodeBase58Plain(payload)
}

// Address renders the canonical "EOS..." public key string.
func (a *EosAccount) Address() (string, error) {
	return PublicKeyString("EOS", a.privateKey.PublicKey()), nil
}

// PrivateKey returns the account's private key.
func (a *EosAccount) PrivateKey() *primitive.PrivateKey { return a.privateKey }

// PublicKey returns the account's public key.
func (a *EosAccount) PublicKey() *primitive.PublicKey { return a.privateKey.PublicKey() }

// Path returns the BIP44 derivation path this account was derived at.
func (a *EosAccount) Path() hdpath.Path { return a.path }

// BlockchainType returns {EOS, netType}.
func (a *EosAccount) BlockchainType() BlockchainType {
	return BlockchainType{Blockchain: EOS, NetType: a.netType}
}

// EosLeafFactory adapts a derived leaf extended key into an EosAccount,
// for use as an HDAccount's LeafFactory.
func EosLeafFactory(netType NetType) LeafFactory {
	return func(leafKey *hdpath.ExtendedKey, path hdpath.Path) (Account, error) {
		priv, err := leafKey.PrivateKey()
		if err != nil {
			return nil, err
		}
		return NewEosAccount(priv, path, netType), nil
	}
}
