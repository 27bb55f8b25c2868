// Package golos implements the JSON-envelope Graphene transaction
// spec.md §4.8 describes: a single transfer operation, a ref-block pair
// derived from a 20-byte block hash, dual-mode expiration, and a real
// compact-signature signing step. Grounded on
// multy_core/src/golos/golos_transaction.cpp, reshaped from hand-rolled
// snprintf JSON into encoding/json-marshaled structs (no pack example
// builds transport JSON any other way) and from the original's literal
// "FAKE GOLOS TX SIGNATURE" stub into a real signature over the
// transaction's own canonical JSON bytes — see DESIGN.md.
package golos

import (
	"encoding/json"
	"time"

	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/walleterr"
)

// golosTokenName is the fixed asset symbol every transfer carries.
const golosTokenName = "GOLOS"

// golosValueDecimalPlaces is the fixed number of fractional digits a
// Golos amount is formatted with, per GOLOS_VALUE_DECIMAL_PLACES.
const golosValueDecimalPlaces = 3

// golosExpireMinSeconds is the expire_duration used when none is set,
// per GOLOS_EXPIRE_MIN_SECONDS; an explicit expire_duration is accepted
// from 11 seconds up.
const golosExpireMinSeconds = 30

const iso8601Format = "2006-01-02T15:04:05"

// ValidateAddress checks that addr is a well-formed Graphene account
// name: 3 to 16 lower-case letters, digits, and hyphens, starting with a
// letter (Golos, like EOS, has no key-derived address — accounts are
// chain-registered names; see account.GolosAccount).
func ValidateAddress(addr string) error {
	const op = "golos.ValidateAddress"
	if len(addr) < 3 || len(addr) > 16 {
		return walleterr.New(walleterr.InvalidAddress, op, "account name must be between 3 and 16 characters")
	}
	if addr[0] < 'a' || addr[0] > 'z' {
		return walleterr.New(walleterr.InvalidAddress, op, "account name must start with a lower-case letter")
	}
	for i := 0; i < len(addr); i++ {
		c := addr[i]
		switch {
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '-':
		default:
			return walleterr.New(walleterr.InvalidAddress, op, "account name contains an invalid character")
		}
	}
	return nil
}

func nonNegativeAmount(v *bigint.Int) error {
	if v.Sign() < 0 {
		return walleterr.New(walleterr.InvalidArgument, "golos.nonNegativeAmount", "amount must not be negative")
	}
	return nil
}

func exactly20Bytes(b []byte) error {
	if len(b) != 20 {
		return walleterr.New(walleterr.InvalidArgument, "golos.exactly20Bytes", "block hash must be exactly 20 bytes")
	}
	return nil
}

func expireDurationAtLeast11(v int32) error {
	if v <= 10 {
		return walleterr.New(walleterr.InvalidArgument, "golos.expireDurationAtLeast11", "expire duration is too small")
	}
	return nil
}

type source struct {
	props   *properties.Properties
	address *properties.Property[string]
	amount  *properties.Property[*bigint.Int]
}

func newSource(validateAddress func(string) error) *source {
	props := properties.New("GolosTransactionSource")
	return &source{
		props:   props,
		address: properties.BindString(props, "address", properties.Required, validateAddress),
		amount:  properties.BindAmount(props, "amount", properties.Optional, nonNegativeAmount),
	}
}

type destination struct {
	props   *properties.Properties
	address *properties.Property[string]
	amount  *properties.Property[*bigint.Int]
}

func newDestination(validateAddress func(string) error) *destination {
	props := properties.New("GolosTransactionDestination")
	return &destination{
		props:   props,
		address: properties.BindString(props, "address", properties.Required, validateAddress),
		amount:  properties.BindAmount(props, "amount", properties.Optional, nonNegativeAmount),
	}
}

// transferOperation is the JSON shape of a "transfer" operation's own
// payload (the second element of its ["transfer", {...}] pair).
type transferOperation struct {
	From   string `json:"from"`
	To     string `json:"to"`
	Amount string `json:"amount"`
	Memo   string `json:"memo"`
}

// formatAmount renders v as a golosValueDecimalPlaces-fraction-digit
// decimal string suffixed with the asset symbol, e.g. "1.500 GOLOS",
// zero-padding short values the way the original's manual string-insert
// did.
func formatAmount(v *bigint.Int) string {
	digits := v.DecimalString()
	negative := false
	if len(digits) > 0 && digits[0] == '-' {
		negative = true
		digits = digits[1:]
	}
	for len(digits) <= golosValueDecimalPlaces {
		digits = "0" + digits
	}
	whole := digits[:len(digits)-golosValueDecimalPlaces]
	frac := digits[len(digits)-golosValueDecimalPlaces:]
	sign := ""
	if negative {
		sign = "-"
	}
	return sign + whole + "." + frac + " " + golosTokenName
}

// envelope is the full JSON transaction document spec.md §4.8 defines.
type envelope struct {
	RefBlockNum    uint16 `json:"ref_block_num"`
	RefBlockPrefix uint32 `json:"ref_block_prefix"`
	Expiration     string `json:"expiration"`
	Operations     []any  `json:"operations"`
	Extensions     []any  `json:"extensions"`
	Signatures     []string `json:"signatures,omitempty"`
}

// Transaction is a single-source, single-destination Graphene-style
// transfer transaction.
type Transaction struct {
	base       *transaction.Base
	privateKey *primitive.PrivateKey

	expireDuration     *properties.Property[int32]
	explicitExpiration *properties.Property[string]
	refBlockNum        *properties.Property[int32]
	refBlockHash       *properties.Property[[]byte]
	memo               *properties.Property[[]byte]

	source      *source
	destination *destination

	serialized []byte
}

// New constructs a Golos transaction signed by priv.
func New(priv *primitive.PrivateKey, netType account.NetType) *Transaction {
	bt := account.BlockchainType{Blockchain: account.Golos, NetType: netType}
	txProps := properties.New("GolosTransaction")
	tx := &Transaction{
		privateKey:         priv,
		expireDuration:     properties.BindInt32(txProps, "expire_duration", properties.Optional, expireDurationAtLeast11),
		explicitExpiration: properties.BindString(txProps, "expiration", properties.Optional, nil),
		refBlockNum:        properties.BindInt32(txProps, "ref_block_num", properties.Required, nil),
		refBlockHash:       properties.BindByteString(txProps, "ref_block_hash", properties.Required, exactly20Bytes),
		memo:               properties.BindByteString(txProps, "memo", properties.Optional, nil),
	}
	validateAddress := func(addr string) error { return ValidateAddress(addr) }
	tx.source = newSource(validateAddress)
	tx.destination = newDestination(validateAddress)
	tx.base = transaction.NewBase(bt, txProps, 1, 1)
	return tx
}

// BlockchainType returns {Golos, netType}.
func (t *Transaction) BlockchainType() account.BlockchainType { return t.base.BlockchainType() }

// TransactionProperties returns the transaction-level property group.
func (t *Transaction) TransactionProperties() *properties.Properties { return t.base.TransactionProperties() }

// Fee always fails: Golos has no client-settable fee, mirroring
// get_fee's ERROR_FEATURE_NOT_SUPPORTED.
func (t *Transaction) Fee() (*properties.Properties, error) {
	return nil, walleterr.New(walleterr.FeatureNotSupported, "golos.Transaction.Fee", "Golos transaction fee is not customizable")
}

// AddSource registers the (only) source.
func (t *Transaction) AddSource() (*properties.Properties, error) {
	if err := t.base.CheckAddSource(); err != nil {
		return nil, err
	}
	t.base.RegisterSource(t.source.props)
	return t.source.props, nil
}

// AddDestination registers the (only) destination.
func (t *Transaction) AddDestination() (*properties.Properties, error) {
	if err := t.base.CheckAddDestination(); err != nil {
		return nil, err
	}
	t.base.RegisterDestination(t.destination.props)
	return t.destination.props, nil
}

func (t *Transaction) verify() error {
	if err := t.base.RequireSources(); err != nil {
		return err
	}
	if err := t.base.RequireDestinations(); err != nil {
		return err
	}
	if !t.expireDuration.IsSet() && !t.explicitExpiration.IsSet() {
		return walleterr.New(walleterr.NotSet, "golos.Transaction.verify",
			`expiration is not set; set either "expire_duration" or "expiration"`)
	}
	return nil
}

func (t *Transaction) resolveExpiration() (time.Time, error) {
	if t.explicitExpiration.IsSet() {
		s, _ := t.explicitExpiration.Get()
		parsed, err := time.Parse(iso8601Format, s)
		if err != nil {
			return time.Time{}, walleterr.Wrap(walleterr.InvalidArgument, "golos.Transaction.resolveExpiration", "invalid ISO-8601 expiration", err)
		}
		return parsed.UTC(), nil
	}
	duration := t.expireDuration.GetOrDefault(golosExpireMinSeconds)
	return time.Now().UTC().Add(time.Duration(duration) * time.Second), nil
}

// refBlockPrefix extracts the second little-endian uint32 word of the
// 20-byte ref_block_hash, matching serialize()'s
// reinterpret_cast<uint32_t*>(block_hash.data)[1] (the Open Question is
// resolved by following the original's literal byte layout).
func refBlockPrefix(hash []byte) uint32 {
	return uint32(hash[4]) | uint32(hash[5])<<8 | uint32(hash[6])<<16 | uint32(hash[7])<<24
}

func (t *Transaction) buildEnvelope() (*envelope, string, error) {
	if err := t.verify(); err != nil {
		return nil, "", err
	}
	refBlockNum, err := t.refBlockNum.Get()
	if err != nil {
		return nil, "", err
	}
	refBlockHash, err := t.refBlockHash.Get()
	if err != nil {
		return nil, "", err
	}
	expiration, err := t.resolveExpiration()
	if err != nil {
		return nil, "", err
	}
	fromAddr, err := t.source.address.Get()
	if err != nil {
		return nil, "", err
	}
	toAddr, err := t.destination.address.Get()
	if err != nil {
		return nil, "", err
	}
	amount, err := t.destination.amount.Get()
	if err != nil {
		return nil, "", err
	}
	op := transferOperation{
		From:   fromAddr,
		To:     toAddr,
		Amount: formatAmount(amount),
		Memo:   string(t.memo.GetOrDefault(nil)),
	}
	env := &envelope{
		RefBlockNum:    uint16(refBlockNum),
		RefBlockPrefix: refBlockPrefix(refBlockHash),
		Expiration:     expiration.Format(iso8601Format),
		Operations:     []any{[]any{"transfer", op}},
		Extensions:     []any{},
	}
	canonical, err := json.Marshal(env)
	if err != nil {
		return nil, "", walleterr.Wrap(walleterr.General, "golos.Transaction.buildEnvelope", "failed to marshal signing payload", err)
	}
	return env, string(canonical), nil
}

// sign builds the unsigned envelope, signs its canonical JSON bytes, and
// caches the final (signed) envelope.
func (t *Transaction) sign() error {
	env, canonical, err := t.buildEnvelope()
	if err != nil {
		return err
	}
	digest := primitive.SHA256([]byte(canonical))
	sig, err := t.privateKey.SignRecoverable(digest)
	if err != nil {
		return err
	}
	env.Signatures = []string{codec.EncodeHex(sig[:])}
	serialized, err := json.Marshal(env)
	if err != nil {
		return walleterr.Wrap(walleterr.General, "golos.Transaction.sign", "failed to marshal signed transaction", err)
	}
	t.serialized = serialized
	return nil
}

// Update validates every property group then signs.
func (t *Transaction) Update() error {
	if err := t.base.ValidateAll(); err != nil {
		return err
	}
	return t.sign()
}

// Sign re-runs Update.
func (t *Transaction) Sign() error { return t.Update() }

// Serialize returns the signed transaction's JSON bytes.
func (t *Transaction) Serialize() ([]byte, error) {
	if err := t.Update(); err != nil {
		return nil, err
	}
	return t.serialized, nil
}

// EncodeSerialized returns the JSON document as a string.
func (t *Transaction) EncodeSerialized() (string, error) {
	serialized, err := t.Serialize()
	if err != nil {
		return "", err
	}
	return string(serialized), nil
}

// TotalFee is always zero: Golos charges no per-transaction fee.
func (t *Transaction) TotalFee() (*bigint.Int, error) { return bigint.Zero(), nil }

// TotalSpent returns the destination amount.
func (t *Transaction) TotalSpent() (*bigint.Int, error) {
	return t.destination.amount.Get()
}

// EstimateTotalFee is always zero.
func (t *Transaction) EstimateTotalFee(sourcesCount, destinationsCount int) (*bigint.Int, error) {
	return bigint.Zero(), nil
}

var _ transaction.Transaction = (*Transaction)(nil)
