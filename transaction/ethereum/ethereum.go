// Package ethereum implements the nine-field RLP transaction and EIP-155
// signing scheme (spec.md §4.6). It is grounded on
// multy_core/internal/ethereum_account.cpp for address derivation and
// multy_test/test_ethereum_transaction.cpp for the exact wire bytes a
// zero-data, one-destination transfer produces — three of the SmokeTest
// fixtures in that file are reproduced as this package's own test
// vectors, since the spec's own scenario 3 text elides everything but
// the fixture's head and tail.
package ethereum

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/walleterr"
)

func nonNegativeAmount(v *bigint.Int) error {
	if v.Sign() < 0 {
		return walleterr.New(walleterr.InvalidArgument, "ethereum.nonNegativeAmount", "amount must not be negative")
	}
	return nil
}

func exactly20Bytes(b []byte) error {
	if len(b) != 20 {
		return walleterr.New(walleterr.InvalidAddress, "ethereum.exactly20Bytes", "address must be exactly 20 bytes")
	}
	return nil
}

// source carries the sender's own balance, bound only so a caller can
// check sufficiency client-side; it never reaches the wire (spec.md
// §4.6: "Source exposes amount for client-side sufficiency checks only").
type source struct {
	props  *properties.Properties
	amount *properties.Property[*bigint.Int]
}

func newSource() *source {
	props := properties.New("EthereumTransactionSource")
	return &source{
		props:  props,
		amount: properties.BindAmount(props, "amount", properties.Optional, nonNegativeAmount),
	}
}

// destination is the single recipient: a 20-byte address and the value
// transferred.
type destination struct {
	props   *properties.Properties
	address *properties.Property[[]byte]
	amount  *properties.Property[*bigint.Int]
}

func newDestination() *destination {
	props := properties.New("EthereumTransactionDestination")
	return &destination{
		props:   props,
		address: properties.BindByteString(props, "address", properties.Required, exactly20Bytes),
		amount:  properties.BindAmount(props, "amount", properties.Required, nonNegativeAmount),
	}
}

// fee carries the gas price and gas limit the caller is willing to pay;
// total fee is their product.
type fee struct {
	props    *properties.Properties
	gasPrice *properties.Property[*bigint.Int]
	gasLimit *properties.Property[*bigint.Int]
}

func newFee() *fee {
	props := properties.New("EthereumTransactionFee")
	return &fee{
		props:    props,
		gasPrice: properties.BindAmount(props, "gas_price", properties.Required, nonNegativeAmount),
		gasLimit: properties.BindAmount(props, "gas_limit", properties.Required, nonNegativeAmount),
	}
}

// Transaction is an EIP-155 Ethereum transaction builder: one source (for
// sufficiency checks only), one destination, a gas-denominated fee, and
// transaction-level nonce/chain_id/payload.
type Transaction struct {
	base       *transaction.Base
	privateKey *primitive.PrivateKey

	nonce   *properties.Property[*bigint.Int]
	chainID *properties.Property[int32]
	payload *properties.Property[[]byte]

	fee         *fee
	sources     []*source
	destinations []*destination

	serialized []byte
}

// New constructs an Ethereum transaction signed by priv. netType is
// carried only for BlockchainType tagging; the EIP-155 chain id used for
// signing comes from the transaction's own required "chain_id" property,
// set independently (a testnet net type and a mainnet chain id are not
// the same knob — spec.md §8 scenario 6 requires a chain-keyed, not a
// net-keyed, facade lookup).
func New(priv *primitive.PrivateKey, netType account.NetType) *Transaction {
	bt := account.BlockchainType{Blockchain: account.Ethereum, NetType: netType}
	txProps := properties.New("EthereumTransaction")
	tx := &Transaction{
		privateKey: priv,
		nonce:      properties.BindAmount(txProps, "nonce", properties.Required, nonNegativeAmount),
		chainID:    properties.BindInt32(txProps, "chain_id", properties.Required, nil),
		payload:    properties.BindByteString(txProps, "payload", properties.Optional, nil),
		fee:        newFee(),
	}
	tx.base = transaction.NewBase(bt, txProps, 1, 1)
	return tx
}

// BlockchainType returns {Ethereum, netType}.
func (t *Transaction) BlockchainType() account.BlockchainType { return t.base.BlockchainType() }

// TransactionProperties returns the transaction-level property group.
func (t *Transaction) TransactionProperties() *properties.Properties { return t.base.TransactionProperties() }

// Fee returns the gas_price/gas_limit property group.
func (t *Transaction) Fee() (*properties.Properties, error) { return t.fee.props, nil }

// AddSource registers the sender's balance-checking source; Ethereum
// allows exactly one.
func (t *Transaction) AddSource() (*properties.Properties, error) {
	if err := t.base.CheckAddSource(); err != nil {
		return nil, err
	}
	src := newSource()
	t.sources = append(t.sources, src)
	t.base.RegisterSource(src.props)
	return src.props, nil
}

// AddDestination registers the single recipient; Ethereum allows exactly
// one.
func (t *Transaction) AddDestination() (*properties.Properties, error) {
	if err := t.base.CheckAddDestination(); err != nil {
		return nil, err
	}
	dst := newDestination()
	t.destinations = append(t.destinations, dst)
	t.base.RegisterDestination(dst.props)
	return dst.props, nil
}

// rlpFields is the nine-field list RLP-encodes, in spec.md §4.6 order.
type rlpFields struct {
	Nonce    *big.Int
	GasPrice *big.Int
	GasLimit *big.Int
	To       []byte
	Value    *big.Int
	Data     []byte
	V        *big.Int
	R        *big.Int
	S        *big.Int
}

func (t *Transaction) buildFields(v, r, s *big.Int) (*rlpFields, error) {
	if err := t.base.RequireDestinations(); err != nil {
		return nil, err
	}
	dst := t.destinations[0]
	to, err := dst.address.Get()
	if err != nil {
		return nil, err
	}
	amount, err := dst.amount.Get()
	if err != nil {
		return nil, err
	}
	nonce, err := t.nonce.Get()
	if err != nil {
		return nil, err
	}
	gasPrice, err := t.fee.gasPrice.Get()
	if err != nil {
		return nil, err
	}
	gasLimit, err := t.fee.gasLimit.Get()
	if err != nil {
		return nil, err
	}
	data := t.payload.GetOrDefault(nil)
	return &rlpFields{
		Nonce:    nonce.Big(),
		GasPrice: gasPrice.Big(),
		GasLimit: gasLimit.Big(),
		To:       common.BytesToAddress(to).Bytes(),
		Value:    amount.Big(),
		Data:     data,
		V:        v,
		R:        r,
		S:        s,
	}, nil
}

// sign builds the EIP-155 preimage (v=chain_id, r=s=0), Keccak-256s it,
// signs with the account's private key, and derives the final v from the
// recovery id: v = recovery + 35 + 2*chain_id.
func (t *Transaction) sign() error {
	chainID, err := t.chainID.Get()
	if err != nil {
		return err
	}
	preimage, err := t.buildFields(big.NewInt(int64(chainID)), big.NewInt(0), big.NewInt(0))
	if err != nil {
		return err
	}
	encoded, err := rlp.EncodeToBytes(preimage)
	if err != nil {
		return walleterr.Wrap(walleterr.General, "ethereum.Transaction.sign", "failed to RLP-encode signing preimage", err)
	}
	digest := primitive.Keccak256(encoded)
	sig, err := t.privateKey.SignRecoverable(digest)
	if err != nil {
		return err
	}
	recoveryID := int64(sig[64])
	v := recoveryID + 35 + 2*int64(chainID)
	r := new(big.Int).SetBytes(sig[0:32])
	s := new(big.Int).SetBytes(sig[32:64])

	final, err := t.buildFields(big.NewInt(v), r, s)
	if err != nil {
		return err
	}
	serialized, err := rlp.EncodeToBytes(final)
	if err != nil {
		return walleterr.Wrap(walleterr.General, "ethereum.Transaction.sign", "failed to RLP-encode signed transaction", err)
	}
	t.serialized = serialized
	return nil
}

// Update validates every property group then signs (spec.md §5's
// ordering: validate, compute derived fields, build preimage, sign).
func (t *Transaction) Update() error {
	if err := t.base.ValidateAll(); err != nil {
		return err
	}
	if err := t.fee.props.Validate(); err != nil {
		return err
	}
	return t.sign()
}

// Sign re-runs Update: Ethereum's signature is itself the only derived
// field Update computes, so the two cannot be split further.
func (t *Transaction) Sign() error { return t.Update() }

// Serialize returns the RLP-encoded signed transaction bytes.
func (t *Transaction) Serialize() ([]byte, error) {
	if err := t.Update(); err != nil {
		return nil, err
	}
	return t.serialized, nil
}

// EncodeSerialized returns the "0x"-prefixed hex transaction envelope.
func (t *Transaction) EncodeSerialized() (string, error) {
	serialized, err := t.Serialize()
	if err != nil {
		return "", err
	}
	return hexutil.Encode(serialized), nil
}

// TotalFee returns gas_price * gas_limit.
func (t *Transaction) TotalFee() (*bigint.Int, error) {
	gasPrice, err := t.fee.gasPrice.Get()
	if err != nil {
		return nil, err
	}
	gasLimit, err := t.fee.gasLimit.Get()
	if err != nil {
		return nil, err
	}
	return gasPrice.Mul(gasLimit), nil
}

// TotalSpent returns the destination amount plus the total fee.
func (t *Transaction) TotalSpent() (*bigint.Int, error) {
	if err := t.base.RequireDestinations(); err != nil {
		return nil, err
	}
	amount, err := t.destinations[0].amount.Get()
	if err != nil {
		return nil, err
	}
	totalFee, err := t.TotalFee()
	if err != nil {
		return nil, err
	}
	return amount.Add(totalFee), nil
}

// EstimateTotalFee returns gas_price*gas_limit; Ethereum's fee doesn't
// scale with source/destination counts, unlike Bitcoin's per-byte model.
func (t *Transaction) EstimateTotalFee(sourcesCount, destinationsCount int) (*bigint.Int, error) {
	return t.TotalFee()
}

var _ transaction.Transaction = (*Transaction)(nil)
