// Package blockchain implements the per-chain facade and registry
// (spec.md §4.9): a single lookup, keyed only by Blockchain (never by
// NetType — spec.md §8 scenario 6 requires mainnet and testnet accounts
// on the same chain to resolve through the same facade), that exposes
// every chain's account/transaction construction and address validation
// behind one uniform surface. Grounded on
// multy_core/src/blockchain_facade_base.h's BlockchainFacadeBase and
// multy_core/src/*_blockchain.cpp's per-chain get_blockchain()
// singletons, reshaped from a virtual-dispatch base class plus a
// global C-ABI registration table into a Go interface plus a package-
// level map.
package blockchain

import (
	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/walleterr"
)

// TransactionBuilder is the minimal surface a named, chain-specific
// action builder exposes to the facade layer: a property group to
// populate and a validation step. Concrete chain packages (only EOS, at
// present) implement richer interfaces (eos.Builder) that embed this
// shape plus a Build step the owning Transaction consumes directly.
type TransactionBuilder interface {
	Properties() *properties.Properties
	Validate() error
}

// Facade is the uniform per-chain surface spec.md §4.9 names:
// make_hd_account, make_account, make_transaction,
// make_transaction_builder, validate_address, and
// encode_serialized_transaction.
type Facade interface {
	// Blockchain names the chain this facade serves.
	Blockchain() account.Blockchain

	// CoinType returns the chain's registered SLIP-44 BIP44 coin type.
	CoinType() uint32

	// MakeHDAccount derives the BIP44 account-level key under master for
	// (this chain, netType, accountIndex) and wraps it for leaf
	// derivation.
	MakeHDAccount(master *hdpath.ExtendedKey, netType account.NetType, accountIndex uint32) (*account.HDAccount, error)

	// MakeAccount wraps an already-derived private key as this chain's
	// account type, without going through HD derivation (e.g. a WIF- or
	// hex-imported key).
	MakeAccount(priv *primitive.PrivateKey, path hdpath.Path, netType account.NetType) (account.Account, error)

	// MakeTransaction returns a new, empty transaction builder for this
	// chain, signed by priv. Bitcoin ignores priv: each of its sources
	// carries its own private_key.
	MakeTransaction(priv *primitive.PrivateKey, netType account.NetType) (transaction.Transaction, error)

	// MakeTransactionBuilder returns a named action builder (e.g. EOS's
	// "transfer"/"updateauth"); chains with no named builders fail with
	// FeatureNotSupported.
	MakeTransactionBuilder(name string) (TransactionBuilder, error)

	// AttachBuilder registers a previously validated TransactionBuilder's
	// produced action onto tx, for chains whose transaction accepts
	// externally built actions (only EOS, at present); other chains fail
	// with FeatureNotSupported.
	AttachBuilder(tx transaction.Transaction, builder TransactionBuilder) error

	// ValidateAddress checks addr is well-formed for this chain and
	// network.
	ValidateAddress(addr string, netType account.NetType) error

	// EncodeSerializedTransaction returns tx's transport envelope
	// (implies tx.Serialize()).
	EncodeSerializedTransaction(tx transaction.Transaction) (string, error)
}

var registry = make(map[account.Blockchain]Facade)

// Register binds a Facade to the chain it serves. Called once per chain
// from this package's own init, and available to test code that wants to
// register a stub facade.
func Register(f Facade) {
	registry[f.Blockchain()] = f
}

// Get looks up the facade for bt — keyed only by bt.Blockchain, per
// spec.md §8 scenario 6.
func Get(bt account.Blockchain) (Facade, error) {
	f, ok := registry[bt]
	if !ok {
		return nil, walleterr.New(walleterr.InvalidArgument, "blockchain.Get", "no facade registered for "+bt.String())
	}
	return f, nil
}

func init() {
	Register(&bitcoinFacade{})
	Register(&ethereumFacade{})
	Register(&eosFacade{})
	Register(&golosFacade{})
}
