// Package eos implements the packed-binary EOS transaction (spec.md
// §4.7): EosName's 5-bit character packing, the fixed transaction-header
// field order, a builder protocol for alternate action shapes, and
// SIG_K1_-prefixed signing. Grounded on multy_core/src/eos/eos_name.h,
// eos_transaction.cpp, and eos_binary_stream.h — reshaped around this
// module's own binary.Stream rather than a dedicated EosBinaryStream,
// since the wire primitives (little-endian scalars, compact-size
// lengths) are identical to Bitcoin's.
package eos

import (
	"strings"
	"time"

	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/binary"
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/walleterr"
)

// eosNameAlphabet is the 32-symbol alphabet EosName packs 5 bits per
// character from; index 0 ('.') is the padding symbol.
const eosNameAlphabet = ".12345abcdefghijklmnopqrstuvwxyz"

// eosTimeConfirmSeconds is added to an explicit ISO-8601 expiration to
// leave room for submission latency (spec.md's Open Question: kept as
// the original's literal behavior, see DESIGN.md).
const eosTimeConfirmSeconds = 30

// Chain ids identify which EOS network a transaction's signing preimage
// is bound to, taken verbatim from eos_transaction.cpp's
// EOS_MAINNET_CHAIN_ID/EOS_TESTNET_CHAIN_ID constants.
var (
	mainnetChainID = [32]byte{
		0xac, 0xa3, 0x76, 0xf2, 0x06, 0xb8, 0xfc, 0x25, 0xa6, 0xed, 0x44, 0xdb, 0xdc, 0x66, 0x54, 0x7c,
		0x36, 0xc6, 0xc3, 0x3e, 0x3a, 0x11, 0x9f, 0xfb, 0xea, 0xef, 0x94, 0x36, 0x42, 0xf0, 0xe9, 0x06,
	}
	testnetChainID = [32]byte{
		0x03, 0x8f, 0x4b, 0x0f, 0xc8, 0xff, 0x18, 0xa4, 0xf0, 0x84, 0x2a, 0x8f, 0x05, 0x64, 0x61, 0x1f,
		0x6e, 0x96, 0xe8, 0x53, 0x59, 0x01, 0xdd, 0x45, 0xe4, 0x3a, 0xc8, 0x69, 0x1a, 0x1c, 0x4d, 0xca,
	}
)

// EosName is a chain account/action/permission name, packed 5 bits per
// character (4 for the 13th) into a little-endian uint64.
type EosName uint64

func charValue(c byte) (uint64, bool) {
	switch {
	case c == '.':
		return 0, true
	case c >= '1' && c <= '5':
		return uint64(c-'1') + 1, true
	case c >= 'a' && c <= 'z':
		return uint64(c-'a') + 6, true
	default:
		return 0, false
	}
}

// ParseEosName packs s (at most 13 characters from lower-case letters,
// the digits 1-5 and '.'; a 13th character must be one of
// ".12345abcdefghij") into an EosName. Invalid characters or an
// over-length string fail with InvalidAddress.
func ParseEosName(s string) (EosName, error) {
	const op = "eos.ParseEosName"
	if len(s) > 13 {
		return 0, walleterr.New(walleterr.InvalidAddress, op, "name longer than 13 characters")
	}
	var value uint64
	for i := 0; i < 13; i++ {
		var c uint64
		if i < len(s) {
			sym, ok := charValue(s[i])
			if !ok {
				return 0, walleterr.New(walleterr.InvalidAddress, op, "invalid character in name")
			}
			c = sym
		}
		if i < 12 {
			c &= 0x1f
			c <<= uint(64 - 5*(i+1))
		} else {
			if c > 0x0f {
				return 0, walleterr.New(walleterr.InvalidAddress, op, "invalid 13th character in name")
			}
			c &= 0x0f
		}
		value |= c
	}
	return EosName(value), nil
}

// String unpacks the name back to text, trimming the '.' padding symbol
// from the tail.
func (n EosName) String() string {
	var buf [13]byte
	v := uint64(n)
	for i := 0; i <= 12; i++ {
		var c byte
		if i == 12 {
			c = byte(v & 0x0f)
		} else {
			c = byte((v >> uint(64-5*(i+1))) & 0x1f)
		}
		buf[i] = eosNameAlphabet[c]
	}
	return strings.TrimRight(string(buf[:]), ".")
}

// ValidateAddress checks that addr packs into a well-formed EosName —
// the chain account name an EOS source/destination slot holds (spec.md
// §4.7; EOS has no key-derived address, see account.EosAccount).
func ValidateAddress(addr string) error {
	_, err := ParseEosName(addr)
	return err
}

func positiveAmount(v *bigint.Int) error {
	if v.Sign() <= 0 {
		return walleterr.New(walleterr.InvalidArgument, "eos.positiveAmount", "amount must be greater than zero")
	}
	return nil
}

func eosNamePredicate(s string) error { return ValidateAddress(s) }

func lessThanUint32Max(v *bigint.Int) error {
	max, _ := bigint.FromDecimalString("4294967295")
	if v.Sign() < 0 || v.Cmp(max) > 0 {
		return walleterr.New(walleterr.OutOfRange, "eos.lessThanUint32Max", "value does not fit in a uint32")
	}
	return nil
}

type source struct {
	props   *properties.Properties
	address *properties.Property[string]
	amount  *properties.Property[*bigint.Int]
}

func newSource() *source {
	props := properties.New("EosTransactionSource")
	return &source{
		props:   props,
		address: properties.BindString(props, "address", properties.Required, eosNamePredicate),
		amount:  properties.BindAmount(props, "amount", properties.Optional, positiveAmount),
	}
}

type destination struct {
	props   *properties.Properties
	address *properties.Property[string]
	amount  *properties.Property[*bigint.Int]
}

func newDestination() *destination {
	props := properties.New("EosTransactionDestination")
	return &destination{
		props:   props,
		address: properties.BindString(props, "address", properties.Required, eosNamePredicate),
		amount:  properties.BindAmount(props, "amount", properties.Optional, positiveAmount),
	}
}

// Builder is the registered action-builder protocol (spec.md §4.7: "a
// registered builder validates its own properties then injects an
// Action"), grounded on eos_transaction_builder_transfer.h/
// eos_transaction_builder_updateauth.h's TransactionBuilder interface.
type Builder interface {
	Properties() *properties.Properties
	Validate() error
	Build() (Action, error)
}

// Transaction is a packed-binary EOS transaction: one source, one
// destination, no client-settable fee, and an externally pluggable
// action builder.
type Transaction struct {
	base       *transaction.Base
	privateKey *primitive.PrivateKey
	netType    account.NetType

	explicitExpiration *properties.Property[string]
	absoluteExpiration *properties.Property[int32]
	refBlockNum        *properties.Property[int32]
	refBlockPrefix     *properties.Property[*bigint.Int]
	memo               *properties.Property[[]byte]

	source      *source
	destination *destination

	builders []Builder

	serialized []byte
	signature  []byte
}

// New constructs an EOS transaction signed by priv.
func New(priv *primitive.PrivateKey, netType account.NetType) *Transaction {
	bt := account.BlockchainType{Blockchain: account.EOS, NetType: netType}
	txProps := properties.New("EosTransaction")
	tx := &Transaction{
		privateKey:         priv,
		netType:            netType,
		explicitExpiration: properties.BindString(txProps, "expiration", properties.Optional, nil),
		absoluteExpiration: properties.BindInt32(txProps, "expiration_timestamp", properties.Optional, nil),
		refBlockNum:        properties.BindInt32(txProps, "block_num", properties.Required, nil),
		refBlockPrefix:     properties.BindAmount(txProps, "ref_block_prefix", properties.Required, lessThanUint32Max),
		memo:               properties.BindByteString(txProps, "memo", properties.Optional, nil),
	}
	tx.base = transaction.NewBase(bt, txProps, 1, 1)
	return tx
}

// BlockchainType returns {EOS, netType}.
func (t *Transaction) BlockchainType() account.BlockchainType { return t.base.BlockchainType() }

// TransactionProperties returns the transaction-level property group.
func (t *Transaction) TransactionProperties() *properties.Properties { return t.base.TransactionProperties() }

// Fee always fails: EOS has no client-settable fee (spec.md §4.7;
// grounded on eos_transaction.cpp's get_fee throwing
// ERROR_FEATURE_NOT_SUPPORTED).
func (t *Transaction) Fee() (*properties.Properties, error) {
	return nil, walleterr.New(walleterr.FeatureNotSupported, "eos.Transaction.Fee", "EOS transaction fee is not customizable")
}

// AddSource registers the (only) source; EOS allows exactly one.
func (t *Transaction) AddSource() (*properties.Properties, error) {
	if err := t.base.CheckAddSource(); err != nil {
		return nil, err
	}
	t.source = newSource()
	t.base.RegisterSource(t.source.props)
	return t.source.props, nil
}

// AddDestination registers the (only) destination; EOS allows exactly
// one.
func (t *Transaction) AddDestination() (*properties.Properties, error) {
	if err := t.base.CheckAddDestination(); err != nil {
		return nil, err
	}
	t.destination = newDestination()
	t.base.RegisterDestination(t.destination.props)
	return t.destination.props, nil
}

// AddActionBuilder registers an external action builder (spec.md §4.7's
// builder protocol); when any builder is registered the transaction does
// not synthesize its own transfer action from source/destination.
func (t *Transaction) AddActionBuilder(b Builder) {
	t.builders = append(t.builders, b)
}

func (t *Transaction) resolveExpiration() (uint32, error) {
	const op = "eos.Transaction.resolveExpiration"
	if t.explicitExpiration.IsSet() {
		s, _ := t.explicitExpiration.Get()
		parsed, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return 0, walleterr.Wrap(walleterr.InvalidArgument, op, "invalid ISO-8601 expiration", err)
		}
		return uint32(parsed.Unix()) + eosTimeConfirmSeconds, nil
	}
	if t.absoluteExpiration.IsSet() {
		v, _ := t.absoluteExpiration.Get()
		return uint32(v), nil
	}
	return 0, walleterr.New(walleterr.NotSet, op, "expiration is not set")
}

func (t *Transaction) resolveActions() ([]Action, error) {
	if len(t.builders) > 0 {
		actions := make([]Action, 0, len(t.builders))
		for _, b := range t.builders {
			if err := b.Validate(); err != nil {
				return nil, err
			}
			action, err := b.Build()
			if err != nil {
				return nil, err
			}
			actions = append(actions, action)
		}
		return actions, nil
	}
	if err := t.base.RequireSources(); err != nil {
		return nil, err
	}
	if err := t.base.RequireDestinations(); err != nil {
		return nil, err
	}
	from, err := ParseEosName(mustString(t.source.address))
	if err != nil {
		return nil, err
	}
	to, err := ParseEosName(mustString(t.destination.address))
	if err != nil {
		return nil, err
	}
	amount, err := t.destination.amount.Get()
	if err != nil {
		return nil, err
	}
	return []Action{&TransferAction{From: from, To: to, Amount: amount, Memo: t.memo.GetOrDefault(nil)}}, nil
}

func mustString(p *properties.Property[string]) string {
	v, _ := p.Get()
	return v
}

// writePacked emits the packed transaction header and action list.
// forSigning prepends the chain id and appends the zero context-free-
// data hash, matching serialize_to_stream's SERIALIZE_FOR_SIGN mode.
func (t *Transaction) writePacked(actions []Action, forSigning bool) ([]byte, error) {
	expiration, err := t.resolveExpiration()
	if err != nil {
		return nil, err
	}
	refBlockNum, err := t.refBlockNum.Get()
	if err != nil {
		return nil, err
	}
	refBlockPrefix, err := t.refBlockPrefix.Get()
	if err != nil {
		return nil, err
	}
	prefix64, err := refBlockPrefix.Uint64()
	if err != nil {
		return nil, err
	}

	s := binary.NewStream()
	if forSigning {
		if t.netType == account.NetMainnet {
			s.WriteBytes(mainnetChainID[:])
		} else {
			s.WriteBytes(testnetChainID[:])
		}
	}
	s.WriteUint32LE(expiration)
	s.WriteUint16LE(uint16(refBlockNum))
	s.WriteUint32LE(uint32(prefix64))
	s.WriteUint8(0) // max_net_usage_words
	s.WriteUint8(0) // max_cpu_usage_ms
	s.WriteUint8(0) // delay_sec
	s.WriteCompactSize(0) // context_free_actions
	s.WriteCompactSize(uint64(len(actions)))
	for _, action := range actions {
		if err := writeAction(s, action); err != nil {
			return nil, err
		}
	}
	s.WriteCompactSize(0) // transaction_extensions
	if forSigning {
		var zero [32]byte
		s.WriteBytes(zero[:])
	}
	return s.Bytes(), nil
}

// sign builds the chain-id-prefixed signing preimage, signs it, and
// caches both the raw signature and the final (non-signing) packed
// bytes.
func (t *Transaction) sign() error {
	actions, err := t.resolveActions()
	if err != nil {
		return err
	}
	preimage, err := t.writePacked(actions, true)
	if err != nil {
		return err
	}
	digest := primitive.SHA256(preimage)
	sig, err := t.privateKey.SignRecoverable(digest)
	if err != nil {
		return err
	}
	t.signature = sig[:]

	packed, err := t.writePacked(actions, false)
	if err != nil {
		return err
	}
	t.serialized = packed
	return nil
}

// Update validates every property group, then signs (the packed
// transaction is itself the preimage, so Update folds build+sign).
func (t *Transaction) Update() error {
	if err := t.base.ValidateAll(); err != nil {
		return err
	}
	return t.sign()
}

// Sign re-runs Update.
func (t *Transaction) Sign() error { return t.Update() }

// Serialize returns the packed transaction bytes (no signature
// envelope).
func (t *Transaction) Serialize() ([]byte, error) {
	if err := t.Update(); err != nil {
		return nil, err
	}
	return t.serialized, nil
}

// EncodeSerialized returns the JSON envelope spec.md §4.7 defines:
// {"signatures":["SIG_K1_…"],"packed_trx":"<hex>","compression":"none","packed_context_free_data":""}.
func (t *Transaction) EncodeSerialized() (string, error) {
	serialized, err := t.Serialize()
	if err != nil {
		return "", err
	}
	sigBase58 := "SIG_K1_" + codec.EncodeBase58Plain(t.signature)
	return `{"signatures":["` + sigBase58 + `"],"packed_trx":"` + codec.EncodeHex(serialized) +
		`","compression":"none","packed_context_free_data":""}`, nil
}

// TotalFee is always zero: EOS charges no per-transaction fee.
func (t *Transaction) TotalFee() (*bigint.Int, error) { return bigint.Zero(), nil }

// TotalSpent returns the destination amount.
func (t *Transaction) TotalSpent() (*bigint.Int, error) {
	if t.destination == nil {
		return nil, walleterr.New(walleterr.TransactionNoDestinations, "eos.Transaction.TotalSpent", "transaction has no destinations")
	}
	return t.destination.amount.Get()
}

// EstimateTotalFee is always zero.
func (t *Transaction) EstimateTotalFee(sourcesCount, destinationsCount int) (*bigint.Int, error) {
	return bigint.Zero(), nil
}

var _ transaction.Transaction = (*Transaction)(nil)
