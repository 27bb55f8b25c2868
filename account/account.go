// Package account implements the polymorphic account model (spec.md
// §4.3/§3): a chain-tagged holder of a private key, its derived public
// key and address, and the BIP44 path it was derived at, plus the
// HDAccount that mints leaf accounts under a cached account-level
// extended key. It is grounded on
// multy_core/internal/account_base.h's AccountBase/HDAccountBase split:
// HDAccount here plays HDAccountBase's role (cache the account-level key,
// derive change then index), while each chain's own file in this package
// plays the *_account.cpp role (address format only).
package account

import (
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/walleterr"
)

// Blockchain names one of the chains this module builds transactions for.
type Blockchain int

const (
	Bitcoin Blockchain = iota
	Ethereum
	EOS
	Golos
)

func (b Blockchain) String() string {
	switch b {
	case Bitcoin:
		return "bitcoin"
	case Ethereum:
		return "ethereum"
	case EOS:
		return "eos"
	case Golos:
		return "golos"
	default:
		return "unknown"
	}
}

// NetType is a chain-scoped network selector; 0 is always mainnet, 1 is
// always testnet, further values are reserved per chain.
type NetType int32

const (
	NetMainnet NetType = 0
	NetTestnet NetType = 1
)

// BlockchainType pins an entity to a chain and network for its entire
// lifetime (spec.md §3: "never mutated").
type BlockchainType struct {
	Blockchain Blockchain
	NetType    NetType
}

// AddressType selects the BIP44 "change" component: external addresses
// are handed out to counterparties, internal addresses are change
// outputs the wallet keeps for itself.
type AddressType int

const (
	External AddressType = 0
	Internal AddressType = 1
)

// Account is the uniform surface every chain-specific account implements.
type Account interface {
	Address() (string, error)
	PrivateKey() *primitive.PrivateKey
	PublicKey() *primitive.PublicKey
	Path() hdpath.Path
	BlockchainType() BlockchainType
}

// LeafFactory builds a chain-specific Account from a freshly derived leaf
// extended key; each chain package supplies one of these to NewHDAccount.
type LeafFactory func(leafKey *hdpath.ExtendedKey, path hdpath.Path) (Account, error)

// HDAccount caches the BIP44 account-level extended key
// (m/44'/coin'/account') and mints leaf accounts from it via two more
// non-hardened derivation steps: change, then index (spec.md §4.3).
type HDAccount struct {
	blockchainType BlockchainType
	accountKey     *hdpath.ExtendedKey
	path           hdpath.Path
	makeLeaf       LeafFactory
}

// NewHDAccount derives the account-level key m/44'/coinType'/accountIndex'
// from master and wraps it for leaf derivation.
func NewHDAccount(master *hdpath.ExtendedKey, bt BlockchainType, coinType, accountIndex uint32, makeLeaf LeafFactory) (*HDAccount, error) {
	path := hdpath.Path{hdpath.Hardened(hdpath.Purpose), hdpath.Hardened(coinType), hdpath.Hardened(accountIndex)}
	accountKey, err := master.Derive(path)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "account.NewHDAccount", "failed to derive BIP44 account key", err)
	}
	return &HDAccount{
		blockchainType: bt,
		accountKey:     accountKey,
		path:           path,
		makeLeaf:       makeLeaf,
	}, nil
}

// Path returns the cached m/44'/coin'/account' prefix.
func (h *HDAccount) Path() hdpath.Path { return h.path }

// BlockchainType returns the chain and network this HD account was built
// for.
func (h *HDAccount) BlockchainType() BlockchainType { return h.blockchainType }

// Leaf derives the account at (addressType, index) — two non-hardened
// steps, change then index — and hands the resulting extended key to the
// chain's LeafFactory.
func (h *HDAccount) Leaf(addressType AddressType, index uint32) (Account, error) {
	changeKey, err := h.accountKey.Derive(hdpath.Path{uint32(addressType)})
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "account.HDAccount.Leaf", "failed to derive change key", err)
	}
	leafKey, err := changeKey.Derive(hdpath.Path{index})
	if err != nil {
		return nil, walleterr.Wrap(walleterr.General, "account.HDAccount.Leaf", "failed to derive leaf key", err)
	}
	leafPath := make(hdpath.Path, 0, len(h.path)+2)
	leafPath = append(leafPath, h.path...)
	leafPath = append(leafPath, uint32(addressType), index)
	return h.makeLeaf(leafKey, leafPath)
}
