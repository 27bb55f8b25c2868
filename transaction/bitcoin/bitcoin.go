// Package bitcoin implements the legacy (non-segwit) P2PKH transaction
// builder (spec.md §4.5): multiple sources and destinations, a
// OP_DUP OP_HASH160 <20> OP_EQUALVERIFY OP_CHECKSIG destination script,
// a per-input double-SHA256 preimage with the scriptSig/scriptPubKey
// swap discipline, and a linear size-based fee envelope. It is grounded
// on multy_transaction/internal/bitcoin_transaction.cpp's
// BitcoinTransactionSource/Destination/Fee and BitcoinTransaction types.
package bitcoin

import (
	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/binary"
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/walleterr"
)

const (
	sigHashAll    uint32 = 1
	sequenceFinal uint32 = 0xFFFFFFFF
	txVersion     uint32 = 1
	txLockTime    uint32 = 0

	perInputSizeEstimate       = 147
	perDestinationSizeEstimate = 34
	// sizeEstimateOverhead follows spec.md's literal "+10"; the original
	// bitcoin_transaction.cpp's estimate_transaction_size uses "+5" — see
	// DESIGN.md's Open Question decision for why spec.md's text wins.
	sizeEstimateOverhead = 10

	opDup         = 0x76
	opHash160     = 0xa9
	opEqualVerify = 0x88
	opCheckSig    = 0xac
)

func nonNegativeAmount(v *bigint.Int) error {
	if v.Sign() < 0 {
		return walleterr.New(walleterr.InvalidArgument, "bitcoin.nonNegativeAmount", "amount must not be negative")
	}
	return nil
}

func exactly32Bytes(b []byte) error {
	if len(b) != 32 {
		return walleterr.New(walleterr.InvalidArgument, "bitcoin.exactly32Bytes", "prev_tx_hash must be exactly 32 bytes")
	}
	return nil
}

// source is one input: a previous output this transaction spends, and
// the key that can unlock it.
type source struct {
	props                 *properties.Properties
	amount                *properties.Property[*bigint.Int]
	prevTxHash            *properties.Property[[]byte]
	prevTxOutIndex        *properties.Property[int32]
	prevTxOutScriptPubkey *properties.Property[[]byte]
	privateKey            *properties.Property[*primitive.PrivateKey]

	// scriptSignature is the scriptSig computed by sign(); empty until then.
	scriptSignature []byte
}

func newSource() *source {
	props := properties.New("BitcoinTransactionSource")
	s := &source{props: props}
	s.amount = properties.BindAmount(props, "amount", properties.Required, nonNegativeAmount)
	s.prevTxHash = properties.BindByteString(props, "prev_tx_hash", properties.Required, exactly32Bytes)
	s.prevTxOutIndex = properties.BindInt32(props, "prev_tx_out_index", properties.Optional, nil)
	s.prevTxOutScriptPubkey = properties.BindByteString(props, "prev_tx_out_script_pubkey", properties.Required, nil)
	s.privateKey = properties.BindPrivateKey(props, "private_key", properties.Required, nil)
	return s
}

// destination is one output: an amount and the address that should be
// able to spend it.
type destination struct {
	props   *properties.Properties
	amount  *properties.Property[*bigint.Int]
	address *properties.Property[string]

	// script is the P2PKH scriptPubKey computed by Update(); empty until then.
	script []byte
}

func newDestination() *destination {
	props := properties.New("BitcoinTransactionDestination")
	d := &destination{props: props}
	d.amount = properties.BindAmount(props, "amount", properties.Required, nonNegativeAmount)
	d.address = properties.BindString(props, "address", properties.Required, nil)
	return d
}

// fee bounds the per-byte rate this transaction is willing to pay.
type fee struct {
	props            *properties.Properties
	amountPerByte    *properties.Property[*bigint.Int]
	minAmountPerByte *properties.Property[*bigint.Int]
	maxAmountPerByte *properties.Property[*bigint.Int]
}

func newFee() *fee {
	props := properties.New("BitcoinTransactionFee")
	f := &fee{props: props}
	f.amountPerByte = properties.BindAmount(props, "amount_per_byte", properties.Required, nonNegativeAmount)
	f.minAmountPerByte = properties.BindAmount(props, "min_amount_per_byte", properties.Optional, nonNegativeAmount)
	f.maxAmountPerByte = properties.BindAmount(props, "max_amount_per_byte", properties.Optional, nonNegativeAmount)
	return f
}

// Transaction is a legacy P2PKH Bitcoin transaction builder.
type Transaction struct {
	base *transaction.Base
	fee  *fee

	sources      []*source
	destinations []*destination

	serialized []byte
}

// New returns an empty Bitcoin transaction targeting netType, ready to
// accept sources and destinations.
func New(netType account.NetType) *Transaction {
	bt := account.BlockchainType{Blockchain: account.Bitcoin, NetType: netType}
	txProps := properties.New("BitcoinTransaction")
	return &Transaction{
		base: transaction.NewBase(bt, txProps, 0, 0),
		fee:  newFee(),
	}
}

// AddSource registers a new input.
func (tx *Transaction) AddSource() (*properties.Properties, error) {
	if err := tx.base.CheckAddSource(); err != nil {
		return nil, err
	}
	s := newSource()
	tx.sources = append(tx.sources, s)
	tx.base.RegisterSource(s.props)
	return s.props, nil
}

// AddDestination registers a new output.
func (tx *Transaction) AddDestination() (*properties.Properties, error) {
	if err := tx.base.CheckAddDestination(); err != nil {
		return nil, err
	}
	d := newDestination()
	tx.destinations = append(tx.destinations, d)
	tx.base.RegisterDestination(d.props)
	return d.props, nil
}

// Fee returns the fee-rate property group.
func (tx *Transaction) Fee() (*properties.Properties, error) { return tx.fee.props, nil }

// TransactionProperties returns the (empty) transaction-level property
// group; Bitcoin has no transaction-level slots beyond sources,
// destinations, and fee.
func (tx *Transaction) TransactionProperties() *properties.Properties {
	return tx.base.TransactionProperties()
}

// BlockchainType returns {Bitcoin, netType}.
func (tx *Transaction) BlockchainType() account.BlockchainType { return tx.base.BlockchainType() }

func (tx *Transaction) nonZeroDestinations() []*destination {
	var out []*destination
	for _, d := range tx.destinations {
		amt, _ := d.amount.Get()
		if !amt.IsZero() {
			out = append(out, d)
		}
	}
	return out
}

// estimateSize takes the RAW destination count, not the non-zero-amount
// subset: a zero-amount destination is dropped from the encoded output
// (writeOutputs only emits nonZeroDestinations) but still counted here —
// spec.md's Open Questions section confirms this is the original
// behavior, not a bug (see DESIGN.md).
func (tx *Transaction) estimateSize(sourceCount, destinationCount int) int {
	return sourceCount*perInputSizeEstimate + destinationCount*perDestinationSizeEstimate + sizeEstimateOverhead
}

// buildScript resolves a destination's address into its P2PKH
// scriptPubKey, checking the address matches the transaction's network.
func (tx *Transaction) buildScript(d *destination) ([]byte, error) {
	addr, err := d.address.Get()
	if err != nil {
		return nil, err
	}
	if err := account.ValidateBitcoinAddress(addr, tx.base.BlockchainType().NetType); err != nil {
		return nil, err
	}
	_, hash, err := codec.DecodeBase58Check(addr)
	if err != nil {
		return nil, err
	}
	s := binary.NewStream()
	s.WriteUint8(opDup)
	s.WriteUint8(opHash160)
	s.WriteCompactSize(uint64(len(hash)))
	s.WriteBytes(hash)
	s.WriteUint8(opEqualVerify)
	s.WriteUint8(opCheckSig)
	return s.Bytes(), nil
}

// validateFee checks leftover (Σ source.amount − Σ destination.amount)
// against [min_per_byte, max_per_byte] × size, defaulting the bounds to
// 1 and amount_per_byte respectively when unset.
func (tx *Transaction) validateFee(leftover *bigint.Int, size int) error {
	amountPerByte, err := tx.fee.amountPerByte.Get()
	if err != nil {
		return err
	}
	maxPerByte := tx.fee.maxAmountPerByte.GetOrDefault(amountPerByte)
	minPerByte := tx.fee.minAmountPerByte.GetOrDefault(bigint.FromInt64(1))
	sizeAmount := bigint.FromInt64(int64(size))
	maxFee := maxPerByte.Mul(sizeAmount)
	minFee := minPerByte.Mul(sizeAmount)
	if leftover.Cmp(minFee) < 0 {
		return walleterr.New(walleterr.InvalidArgument, "bitcoin.Transaction.validateFee", "fee leftover is below the minimum required fee")
	}
	if leftover.Cmp(maxFee) > 0 {
		return walleterr.New(walleterr.InvalidArgument, "bitcoin.Transaction.validateFee", "fee leftover exceeds the maximum allowed fee")
	}
	return nil
}

// writeInputs appends every source's (reversed prev hash, prev index,
// script, sequence), using scriptFor to choose each input's script
// field — the caller-supplied function the preimage builder and the
// final assembler each implement differently.
func writeInputs(s *binary.Stream, sources []*source, scriptFor func(i int, src *source) []byte) {
	s.WriteCompactSize(uint64(len(sources)))
	for i, src := range sources {
		prevHash, _ := src.prevTxHash.Get()
		s.WriteReversed(prevHash)
		s.WriteUint32LE(uint32(src.prevTxOutIndex.GetOrDefault(0)))
		script := scriptFor(i, src)
		s.WriteCompactSize(uint64(len(script)))
		s.WriteBytes(script)
		s.WriteUint32LE(sequenceFinal)
	}
}

func writeOutputs(s *binary.Stream, destinations []*destination) {
	s.WriteCompactSize(uint64(len(destinations)))
	for _, d := range destinations {
		amt, _ := d.amount.Get()
		amtU64, _ := amt.Uint64()
		s.WriteUint64LE(amtU64)
		s.WriteCompactSize(uint64(len(d.script)))
		s.WriteBytes(d.script)
	}
}

// preimageForInput builds the legacy SIGHASH_ALL preimage for input
// signIndex: every other input's script is cleared, the input being
// signed carries its own prev_tx_out_script_pubkey, and the sighash type
// is appended after the locktime.
func (tx *Transaction) preimageForInput(signIndex int) []byte {
	s := binary.NewStream()
	s.WriteUint32LE(txVersion)
	writeInputs(s, tx.sources, func(i int, src *source) []byte {
		if i != signIndex {
			return nil
		}
		script, _ := src.prevTxOutScriptPubkey.Get()
		return script
	})
	writeOutputs(s, tx.nonZeroDestinations())
	s.WriteUint32LE(txLockTime)
	s.WriteUint32LE(sigHashAll)
	return s.Bytes()
}

// sign computes each input's scriptSig in turn: double-SHA256 that
// input's preimage, ECDSA-sign it with the input's own private key, and
// assemble <push sigDER+hashtype> <push pubkey>.
func (tx *Transaction) sign() error {
	for i, src := range tx.sources {
		priv, err := src.privateKey.Get()
		if err != nil {
			return err
		}
		digest := primitive.SHA256d(tx.preimageForInput(i))
		derSig := priv.Sign(digest)
		sigWithHashType := append(append([]byte{}, derSig...), byte(sigHashAll))
		pubkey := priv.PublicKey().Compressed()

		s := binary.NewStream()
		s.WriteCompactSize(uint64(len(sigWithHashType)))
		s.WriteBytes(sigWithHashType)
		s.WriteCompactSize(uint64(len(pubkey)))
		s.WriteBytes(pubkey)
		src.scriptSignature = s.Bytes()
	}
	return nil
}

func (tx *Transaction) assemble() []byte {
	s := binary.NewStream()
	s.WriteUint32LE(txVersion)
	writeInputs(s, tx.sources, func(_ int, src *source) []byte { return src.scriptSignature })
	writeOutputs(s, tx.nonZeroDestinations())
	s.WriteUint32LE(txLockTime)
	return s.Bytes()
}

// Update validates every property group, builds each destination's
// script, checks the fee envelope, signs every input, and assembles the
// final bytes, in that order (spec.md §5's Transaction::update sequence).
func (tx *Transaction) Update() error {
	if err := tx.base.RequireSources(); err != nil {
		return err
	}
	if err := tx.base.RequireDestinations(); err != nil {
		return err
	}
	if err := tx.base.ValidateAll(); err != nil {
		return err
	}
	if err := tx.fee.props.Validate(); err != nil {
		return err
	}

	for _, d := range tx.destinations {
		script, err := tx.buildScript(d)
		if err != nil {
			return err
		}
		d.script = script
	}

	totalSources := bigint.Zero()
	for _, s := range tx.sources {
		amt, _ := s.amount.Get()
		totalSources = totalSources.Add(amt)
	}
	totalDestinations := bigint.Zero()
	for _, d := range tx.destinations {
		amt, _ := d.amount.Get()
		totalDestinations = totalDestinations.Add(amt)
	}
	leftover := totalSources.Sub(totalDestinations)
	if leftover.Sign() < 0 {
		return walleterr.New(walleterr.InvalidArgument, "bitcoin.Transaction.Update", "destinations spend more than the sources provide")
	}

	size := tx.estimateSize(len(tx.sources), len(tx.destinations))
	if err := tx.validateFee(leftover, size); err != nil {
		return err
	}

	if err := tx.sign(); err != nil {
		return err
	}

	tx.serialized = tx.assemble()
	return nil
}

// Sign implies Update: Bitcoin's signing step cannot be separated from
// script construction and fee validation.
func (tx *Transaction) Sign() error { return tx.Update() }

// Serialize returns the final on-chain-ready bytes.
func (tx *Transaction) Serialize() ([]byte, error) {
	if err := tx.Update(); err != nil {
		return nil, err
	}
	return tx.serialized, nil
}

// EncodeSerialized returns the hex encoding of Serialize's bytes.
func (tx *Transaction) EncodeSerialized() (string, error) {
	data, err := tx.Serialize()
	if err != nil {
		return "", err
	}
	return codec.EncodeHex(data), nil
}

// TotalFee returns the leftover Σ source.amount − Σ destination.amount,
// the fee the transaction actually pays.
func (tx *Transaction) TotalFee() (*bigint.Int, error) {
	if err := tx.Update(); err != nil {
		return nil, err
	}
	total := bigint.Zero()
	for _, s := range tx.sources {
		amt, _ := s.amount.Get()
		total = total.Add(amt)
	}
	for _, d := range tx.destinations {
		amt, _ := d.amount.Get()
		total = total.Sub(amt)
	}
	return total, nil
}

// TotalSpent returns Σ destination.amount + TotalFee().
func (tx *Transaction) TotalSpent() (*bigint.Int, error) {
	totalFee, err := tx.TotalFee()
	if err != nil {
		return nil, err
	}
	total := bigint.Zero()
	for _, d := range tx.destinations {
		amt, _ := d.amount.Get()
		total = total.Add(amt)
	}
	return total.Add(totalFee), nil
}

// EstimateTotalFee projects the fee a transaction with the given
// source/destination counts would incur, without requiring either to be
// populated yet.
func (tx *Transaction) EstimateTotalFee(sourcesCount, destinationsCount int) (*bigint.Int, error) {
	amountPerByte, err := tx.fee.amountPerByte.Get()
	if err != nil {
		return nil, err
	}
	size := tx.estimateSize(sourcesCount, destinationsCount)
	return amountPerByte.MulScalar(int64(size)), nil
}

var _ transaction.Transaction = (*Transaction)(nil)
