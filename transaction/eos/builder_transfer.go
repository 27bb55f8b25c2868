package eos

import (
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/walleterr"
)

// TransferBuilder is a standalone transfer-action builder, usable
// outside a Transaction's own implicit source/destination transfer (e.g.
// from the blockchain facade's make_transaction_builder). Grounded on
// eos_transaction_builder_transfer.h/.cpp's EosTransactionBuilderTransfer,
// which exposes from/to/balance/amount/memo as its own property group
// rather than reusing the transaction's source/destination slots.
type TransferBuilder struct {
	props  *properties.Properties
	from   *properties.Property[string]
	to     *properties.Property[string]
	balance *properties.Property[*bigint.Int]
	amount *properties.Property[*bigint.Int]
	memo   *properties.Property[[]byte]
}

// NewTransferBuilder returns a TransferBuilder with its property group
// ready to populate.
func NewTransferBuilder() *TransferBuilder {
	props := properties.New("EosTransactionBuilderTransfer")
	return &TransferBuilder{
		props:   props,
		from:    properties.BindString(props, "from", properties.Required, eosNamePredicate),
		to:      properties.BindString(props, "to", properties.Required, eosNamePredicate),
		balance: properties.BindAmount(props, "balance", properties.Optional, nil),
		amount:  properties.BindAmount(props, "amount", properties.Required, positiveAmount),
		memo:    properties.BindByteString(props, "memo", properties.Optional, nil),
	}
}

// Properties returns the builder's own from/to/balance/amount/memo
// property group.
func (b *TransferBuilder) Properties() *properties.Properties { return b.props }

// Validate checks from/to/amount are set and well-formed; balance, if
// set, must cover the transfer amount (client-side sufficiency check,
// mirroring the original's balance >= amount assertion).
func (b *TransferBuilder) Validate() error {
	if err := b.props.Validate(); err != nil {
		return err
	}
	amount, err := b.amount.Get()
	if err != nil {
		return err
	}
	if b.balance.IsSet() {
		balance, _ := b.balance.Get()
		if balance.Cmp(amount) < 0 {
			return walleterr.New(walleterr.InvalidArgument, "eos.TransferBuilder.Validate", "balance is insufficient for amount")
		}
	}
	return nil
}

// Build produces the eosio.token::transfer Action the registered builder
// contributes to the owning Transaction.
func (b *TransferBuilder) Build() (Action, error) {
	fromStr, err := b.from.Get()
	if err != nil {
		return nil, err
	}
	toStr, err := b.to.Get()
	if err != nil {
		return nil, err
	}
	from, err := ParseEosName(fromStr)
	if err != nil {
		return nil, err
	}
	to, err := ParseEosName(toStr)
	if err != nil {
		return nil, err
	}
	amount, err := b.amount.Get()
	if err != nil {
		return nil, err
	}
	return &TransferAction{From: from, To: to, Amount: amount, Memo: b.memo.GetOrDefault(nil)}, nil
}

var _ Builder = (*TransferBuilder)(nil)
