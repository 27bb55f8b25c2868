package account

import (
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/walleterr"
)

// golosWIFVersion mirrors Bitcoin/EOS's legacy WIF scheme; Graphene
// chains (Golos included) derive private keys the same way.
const golosWIFVersion = 0x80

// GolosAccount, like EosAccount, has no key-derived address: Graphene
// account names are chain-registered separately. Address() renders the
// canonical "GLS..." public key string.
type GolosAccount struct {
	privateKey *primitive.PrivateKey
	path       hdpath.Path
	netType    NetType
}

// NewGolosAccount wraps an already-derived private key as a Golos
// account.
func NewGolosAccount(priv *primitive.PrivateKey, path hdpath.Path, netType NetType) *GolosAccount {
	return &GolosAccount{privateKey: priv, path: path, netType: netType}
}

// NewGolosAccountFromWIF parses a legacy (0x80-versioned) Base58Check
// private key.
func NewGolosAccountFromWIF(wif string, netType NetType) (*GolosAccount, error) {
	version, payload, err := codec.DecodeBase58Check(wif)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "account.NewGolosAccountFromWIF", "invalid WIF string", err)
	}
	if version != golosWIFVersion {
		return nil, walleterr.New(walleterr.InvalidArgument, "account.NewGolosAccountFromWIF", "unrecognized Golos WIF version byte")
	}
	priv, err := primitive.PrivateKeyFromBytes(payload)
	if err != nil {
		return nil, err
	}
	return &GolosAccount{privateKey: priv, netType: netType}, nil
}

// Address renders the canonical "GLS..." public key string.
func (a *GolosAccount) Address() (string, error) {
	return PublicKeyString("GLS", a.privateKey.PublicKey()), nil
}

// PrivateKey returns the account's private key.
func (a *GolosAccount) PrivateKey() *primitive.PrivateKey { return a.privateKey }

// PublicKey returns the account's public key.
func (a *GolosAccount) PublicKey() *primitive.PublicKey { return a.privateKey.PublicKey() }

// Path returns the BIP44 derivation path this account was derived at.
func (a *GolosAccount) Path() hdpath.Path { return a.path }

// BlockchainType returns {Golos, netType}.
func (a *GolosAccount) BlockchainType() BlockchainType {
	return BlockchainType{Blockchain: Golos, NetType: a.netType}
}

// GolosLeafFactory adapts a derived leaf extended key into a
// GolosAccount, for use as an HDAccount's LeafFactory.
func GolosLeafFactory(netType NetType) LeafFactory {
	return func(leafKey *hdpath.ExtendedKey, path hdpath.Path) (Account, error) {
		priv, err := leafKey.PrivateKey()
		if err != nil {
			return nil, err
		}
		return NewGolosAccount(priv, path, netType), nil
	}
}
