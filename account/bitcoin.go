package account

import (
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/walleterr"
)

// Bitcoin WIF version bytes (multy_core/internal/bitcoin_account.cpp's
// make_bitcoin_account): 0x80 marks mainnet, 0xEF marks testnet; a
// trailing 0x01 byte (present only for mainnet "L"/"K"-prefixed or
// testnet "c"-prefixed keys) marks a compressed public key.
const (
	wifVersionMainnet = 0x80
	wifVersionTestnet = 0xef

	p2pkhVersionMainnet = 0x00
	p2pkhVersionTestnet = 0x6f
)

// BitcoinAccount is a P2PKH account: its address is the Base58Check
// RIPEMD160(SHA256(pubkey)) digest, version-prefixed per network.
type BitcoinAccount struct {
	privateKey *primitive.PrivateKey
	path       hdpath.Path
	netType    NetType
	compressed bool
}

// NewBitcoinAccount wraps an already-derived private key as a Bitcoin
// P2PKH account.
func NewBitcoinAccount(priv *primitive.PrivateKey, path hdpath.Path, netType NetType) *BitcoinAccount {
	return &BitcoinAccount{privateKey: priv, path: path, netType: netType, compressed: true}
}

// NewBitcoinAccountFromWIF parses a WIF-encoded private key, recovering
// its network and compression flag from the version/trailer bytes.
func NewBitcoinAccountFromWIF(wif string) (*BitcoinAccount, error) {
	version, payload, err := codec.DecodeBase58Check(wif)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "account.NewBitcoinAccountFromWIF", "invalid WIF string", err)
	}
	if version != wifVersionMainnet && version != wifVersionTestnet {
		return nil, walleterr.New(walleterr.InvalidArgument, "account.NewBitcoinAccountFromWIF", "unrecognized WIF version byte")
	}
	netType := NetMainnet
	if version == wifVersionTestnet {
		netType = NetTestnet
	}
	compressed := false
	if len(payload) == 33 && payload[32] == 0x01 {
		compressed = true
		payload = payload[:32]
	}
	if len(payload) != 32 {
		return nil, walleterr.New(walleterr.InvalidArgument, "account.NewBitcoinAccountFromWIF", "WIF payload is not a 32-byte private key")
	}
	priv, err := primitive.PrivateKeyFromBytes(payload)
	if err != nil {
		return nil, err
	}
	return &BitcoinAccount{privateKey: priv, netType: netType, compressed: compressed}, nil
}

// WIF renders the account's private key in WIF form.
func (a *BitcoinAccount) WIF() string {
	version := byte(wifVersionMainnet)
	if a.netType == NetTestnet {
		version = wifVersionTestnet
	}
	payload := a.privateKey.Bytes()
	if a.compressed {
		payload = append(append([]byte{}, payload...), 0x01)
	}
	return codec.EncodeBase58Check(append([]byte{version}, payload...))
}

// Address renders the Base58Check P2PKH address.
func (a *BitcoinAccount) Address() (string, error) {
	pub := a.privateKey.PublicKey()
	pubkeyBytes := pub.Compressed()
	if !a.compressed {
		pubkeyBytes = pub.Uncompressed()
	}
	hash := primitive.Hash160(pubkeyBytes)
	version := byte(p2pkhVersionMainnet)
	if a.netType == NetTestnet {
		version = p2pkhVersionTestnet
	}
	return codec.EncodeBase58Check(append([]byte{version}, hash[:]...)), nil
}

// PrivateKey returns the account's private key.
func (a *BitcoinAccount) PrivateKey() *primitive.PrivateKey { return a.privateKey }

// PublicKey returns the account's public key.
func (a *BitcoinAccount) PublicKey() *primitive.PublicKey { return a.privateKey.PublicKey() }

// Path returns the BIP44 derivation path this account was derived at
// (empty for an account built directly from a WIF).
func (a *BitcoinAccount) Path() hdpath.Path { return a.path }

// BlockchainType returns {Bitcoin, netType}.
func (a *BitcoinAccount) BlockchainType() BlockchainType {
	return BlockchainType{Blockchain: Bitcoin, NetType: a.netType}
}

// ValidateBitcoinAddress checks that addr is a well-formed Base58Check P2PKH
// address for netType.
func ValidateBitcoinAddress(addr string, netType NetType) error {
	version, payload, err := codec.DecodeBase58Check(addr)
	if err != nil {
		return walleterr.Wrap(walleterr.InvalidAddress, "account.ValidateBitcoinAddress", "malformed address", err)
	}
	wantVersion := byte(p2pkhVersionMainnet)
	if netType == NetTestnet {
		wantVersion = p2pkhVersionTestnet
	}
	if version != wantVersion {
		return walleterr.New(walleterr.InvalidAddress, "account.ValidateBitcoinAddress", "address version byte does not match network")
	}
	if len(payload) != 20 {
		return walleterr.New(walleterr.InvalidAddress, "account.ValidateBitcoinAddress", "address payload is not a 20-byte hash160")
	}
	return nil
}

// BitcoinLeafFactory adapts a derived leaf extended key into a
// BitcoinAccount, for use as an HDAccount's LeafFactory.
func BitcoinLeafFactory(netType NetType) LeafFactory {
	return func(leafKey *hdpath.ExtendedKey, path hdpath.Path) (Account, error) {
		priv, err := leafKey.PrivateKey()
		if err != nil {
			return nil, err
		}
		return NewBitcoinAccount(priv, path, netType), nil
	}
}
