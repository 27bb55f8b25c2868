package eos

import (
	"github.com/ledgerflow/walletcore/binary"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/walleterr"
)

// eosTokenAccount and eosTokenPrecision/eosTokenSymbol are the fixed
// system token fields every transfer action carries (spec.md §4.7's
// "symbol_7b = EOS\0\0\0\0"), grounded on
// eos_transaction_transfer_action.cpp's EOS_TOKEN_NAME/EOS_PRECISION.
const (
	eosTokenAccount   = "eosio.token"
	eosTransferName   = "transfer"
	eosTokenPrecision = 4
)

var eosTokenSymbol = [7]byte{'E', 'O', 'S', 0, 0, 0, 0}

const maxMemoLen = 255

// Authorization pairs an actor with the permission level it is acting
// under, e.g. {"alice", "active"} — seen in eos_transaction_action.h's
// EosAuthorization and written before an action's data.
type Authorization struct {
	Actor      EosName
	Permission EosName
}

func (a Authorization) writeTo(s *binary.Stream) {
	s.WriteUint64LE(uint64(a.Actor))
	s.WriteUint64LE(uint64(a.Permission))
}

// Action is the uniform surface every EOS action (transfer, updateauth,
// ...) implements so the transaction can serialize it without knowing
// its concrete shape — the role EosTransactionAction's write_to_stream/
// make_data pair plays in eos_transaction_action.h.
type Action interface {
	// Account names the contract the action targets (e.g. "eosio.token").
	Account() EosName
	// Name names the action itself (e.g. "transfer").
	Name() EosName
	// Authorizations lists the actor/permission pairs authorizing the
	// action.
	Authorizations() []Authorization
	// Data returns the action's own packed payload, written length-
	// prefixed after the authorization list.
	Data() ([]byte, error)
}

func writeAction(s *binary.Stream, a Action) error {
	s.WriteUint64LE(uint64(a.Account()))
	s.WriteUint64LE(uint64(a.Name()))
	auths := a.Authorizations()
	s.WriteCompactSize(uint64(len(auths)))
	for _, auth := range auths {
		auth.writeTo(s)
	}
	data, err := a.Data()
	if err != nil {
		return err
	}
	s.WriteCompactSize(uint64(len(data)))
	s.WriteBytes(data)
	return nil
}

// TransferAction is the built-in "eosio.token::transfer" action spec.md
// §4.7 describes: from/to EosName, a u64 quantity at fixed 4-decimal
// precision, the fixed "EOS" symbol, and an at-most-255-byte memo.
// Grounded on eos_transaction_transfer_action.cpp.
type TransferAction struct {
	From   EosName
	To     EosName
	Amount *bigint.Int
	Memo   []byte
}

func (t *TransferAction) Account() EosName { return mustEosName(eosTokenAccount) }
func (t *TransferAction) Name() EosName    { return mustEosName(eosTransferName) }

func (t *TransferAction) Authorizations() []Authorization {
	return []Authorization{{Actor: t.From, Permission: mustEosName("active")}}
}

func (t *TransferAction) Data() ([]byte, error) {
	if len(t.Memo) > maxMemoLen {
		return nil, walleterr.New(walleterr.TransactionPayloadTooBig, "eos.TransferAction.Data",
			"memo exceeds 255 bytes")
	}
	quantity, err := t.Amount.Uint64()
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "eos.TransferAction.Data", "amount does not fit a u64 quantity", err)
	}
	s := binary.NewStream()
	s.WriteUint64LE(uint64(t.From))
	s.WriteUint64LE(uint64(t.To))
	s.WriteUint64LE(quantity)
	s.WriteUint8(eosTokenPrecision)
	s.WriteBytes(eosTokenSymbol[:])
	s.WriteCompactSize(uint64(len(t.Memo)))
	s.WriteBytes(t.Memo)
	return s.Bytes(), nil
}

// mustEosName parses a literal, program-controlled name; it panics on
// failure since every call site passes a compile-time-known valid name.
func mustEosName(s string) EosName {
	n, err := ParseEosName(s)
	if err != nil {
		panic("eos: invalid built-in name " + s)
	}
	return n
}

var _ Action = (*TransferAction)(nil)
