// Package transaction defines the uniform transaction contract every
// chain-specific builder implements (spec.md §4's "Transaction
// abstraction"): add source, add destination, get fee, get
// transaction-level properties, update, sign, serialize, encode, and the
// three fee/spend accessors. It is grounded on
// multy_transaction/internal/transaction.h's Transaction interface and
// transaction_base.h's TransactionBase, reshaped from virtual dispatch
// plus out-of-band Properties registration into a Go interface plus an
// embeddable Base that owns the bookkeeping every chain shares: source
// and destination property-group lists with per-chain count limits.
package transaction

import (
	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/walleterr"
)

// Transaction is the uniform surface every chain-specific transaction
// implements.
type Transaction interface {
	// AddSource registers a new source property group and returns it for
	// the caller to populate; fails with a TooManySources error if the
	// chain's source limit is already reached.
	AddSource() (*properties.Properties, error)

	// AddDestination registers a new destination property group; fails
	// with a TooManyDestinations error past the chain's limit.
	AddDestination() (*properties.Properties, error)

	// Fee returns the fee property group; fails with FeatureNotSupported
	// for chains (EOS, Golos) that don't expose a client-set fee.
	Fee() (*properties.Properties, error)

	// TransactionProperties returns the transaction-level property group
	// (nonce, chain id, expiration, ref-block, payload, ...).
	TransactionProperties() *properties.Properties

	// Update validates every property group, computes derived fields
	// (change, gas cost, action data), builds the signing preimage, and
	// signs. Serialize and EncodeSerialized both imply it.
	Update() error

	// Sign produces the transaction's signature(s) over its preimage.
	// Deterministic: identical inputs yield identical signatures.
	Sign() error

	// Serialize returns the final on-chain-ready bytes. Implies Update.
	Serialize() ([]byte, error)

	// EncodeSerialized returns the transport envelope (hex for binary
	// chains, a JSON object for EOS/Golos). Implies Serialize.
	EncodeSerialized() (string, error)

	// TotalFee returns the fee actually charged.
	TotalFee() (*bigint.Int, error)

	// TotalSpent returns the sum of every destination amount plus the
	// total fee.
	TotalSpent() (*bigint.Int, error)

	// EstimateTotalFee projects the fee a transaction with the given
	// source/destination counts would incur, without requiring them to
	// be populated yet.
	EstimateTotalFee(sourcesCount, destinationsCount int) (*bigint.Int, error)

	// BlockchainType returns the chain and network this transaction
	// targets.
	BlockchainType() account.BlockchainType
}

// Base owns the source/destination property-group bookkeeping shared by
// every chain: a capped count of each, registered by the concrete chain
// type as it builds its own typed source/destination wrappers. Each
// chain keeps its own typed slice (so it can reach bound fields like
// "amount" or "address" directly); Base only needs the Properties handle
// for count-limit enforcement and the Update() validation pass.
type Base struct {
	blockchainType   account.BlockchainType
	txProperties     *properties.Properties
	sourceProps      []*properties.Properties
	maxSources       int
	destinationProps []*properties.Properties
	maxDestinations  int
}

// NewBase constructs a Base with the given per-chain source/destination
// limits. A limit of 0 means unlimited.
func NewBase(bt account.BlockchainType, txProperties *properties.Properties, maxSources, maxDestinations int) *Base {
	return &Base{
		blockchainType:  bt,
		txProperties:    txProperties,
		maxSources:      maxSources,
		maxDestinations: maxDestinations,
	}
}

// BlockchainType returns the chain and network this transaction targets.
func (b *Base) BlockchainType() account.BlockchainType { return b.blockchainType }

// TransactionProperties returns the transaction-level property group.
func (b *Base) TransactionProperties() *properties.Properties { return b.txProperties }

// CheckAddSource fails with TransactionTooManySources if the chain's
// source limit is already reached.
func (b *Base) CheckAddSource() error {
	if b.maxSources > 0 && len(b.sourceProps) >= b.maxSources {
		return walleterr.New(walleterr.TransactionTooManySources, "transaction.Base.CheckAddSource", "transaction accepts at most one source per this chain's rules")
	}
	return nil
}

// RegisterSource records a newly created source's Properties for
// count-limit enforcement and validation.
func (b *Base) RegisterSource(props *properties.Properties) {
	b.sourceProps = append(b.sourceProps, props)
}

// CheckAddDestination fails with TransactionTooManyDestinations past the
// chain's destination limit.
func (b *Base) CheckAddDestination() error {
	if b.maxDestinations > 0 && len(b.destinationProps) >= b.maxDestinations {
		return walleterr.New(walleterr.TransactionTooManyDestinations, "transaction.Base.CheckAddDestination", "transaction accepts at most one destination per this chain's rules")
	}
	return nil
}

// RegisterDestination records a newly created destination's Properties.
func (b *Base) RegisterDestination(props *properties.Properties) {
	b.destinationProps = append(b.destinationProps, props)
}

// SourceCount returns how many sources have been added.
func (b *Base) SourceCount() int { return len(b.sourceProps) }

// DestinationCount returns how many destinations have been added.
func (b *Base) DestinationCount() int { return len(b.destinationProps) }

// RequireSources fails with TransactionNoSources if no source has been
// added yet.
func (b *Base) RequireSources() error {
	if len(b.sourceProps) == 0 {
		return walleterr.New(walleterr.TransactionNoSources, "transaction.Base.RequireSources", "transaction has no sources")
	}
	return nil
}

// RequireDestinations fails with TransactionNoDestinations if no
// destination has been added yet.
func (b *Base) RequireDestinations() error {
	if len(b.destinationProps) == 0 {
		return walleterr.New(walleterr.TransactionNoDestinations, "transaction.Base.RequireDestinations", "transaction has no destinations")
	}
	return nil
}

// ValidateAll runs Validate across the transaction properties and every
// source/destination group, the first step Update() must perform per
// spec.md §4's ordering guarantee.
func (b *Base) ValidateAll() error {
	if err := b.txProperties.Validate(); err != nil {
		return err
	}
	for _, src := range b.sourceProps {
		if err := src.Validate(); err != nil {
			return err
		}
	}
	for _, dst := range b.destinationProps {
		if err := dst.Validate(); err != nil {
			return err
		}
	}
	return nil
}
