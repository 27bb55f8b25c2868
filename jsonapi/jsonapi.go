// Package jsonapi implements the JSON front door (spec.md §4.10): a
// single request/response shape that drives the blockchain registry
// without the caller linking against any chain-specific package. It is
// grounded on multy_core/src/api/transaction_api.cpp's JSON layer (the
// C-ABI entry points multy_transaction_set_property_value/
// multy_transaction_update accept a name string and an opaque value,
// exactly the shape Properties.Kind/SetProperty already exposes), here
// collapsed into one decode-dispatch-encode function instead of a
// C-ABI handle table.
package jsonapi

import (
	"encoding/json"

	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/bigint"
	"github.com/ledgerflow/walletcore/blockchain"
	"github.com/ledgerflow/walletcore/codec"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/walleterr"
)

// txSection is the "transaction" object: the reserved "fee",
// "sources", and "destinations" keys are peeled off into their own
// fields, everything else is a transaction-level property.
type txSection struct {
	Fee          map[string]json.RawMessage
	Sources      []map[string]json.RawMessage
	Destinations []map[string]json.RawMessage
	Properties   map[string]json.RawMessage
}

func (t *txSection) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.txSection.UnmarshalJSON", "transaction must be a JSON object", err)
	}
	t.Properties = make(map[string]json.RawMessage)
	for name, value := range raw {
		switch name {
		case "fee":
			if err := json.Unmarshal(value, &t.Fee); err != nil {
				return walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.txSection.UnmarshalJSON", "fee must be a JSON object", err)
			}
		case "sources":
			if err := json.Unmarshal(value, &t.Sources); err != nil {
				return walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.txSection.UnmarshalJSON", "sources must be an array of objects", err)
			}
		case "destinations":
			if err := json.Unmarshal(value, &t.Destinations); err != nil {
				return walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.txSection.UnmarshalJSON", "destinations must be an array of objects", err)
			}
		default:
			t.Properties[name] = value
		}
	}
	return nil
}

// builderSection is the optional "builder" object: a named action
// builder (EOS's "transfer"/"updateauth", at present) plus the payload
// of properties it is populated from before being attached to the
// transaction.
type builderSection struct {
	Type    json.RawMessage            `json:"type"`
	Action  string                     `json:"action"`
	Payload map[string]json.RawMessage `json:"payload"`
}

// name resolves the builder-lookup key: "action" wins when present,
// otherwise "type" is read as a bare string (the "<int|name>" spec.md
// allows collapses to name-only here — this module's registry has no
// numeric builder ids to translate).
func (b *builderSection) name() (string, error) {
	if b.Action != "" {
		return b.Action, nil
	}
	var s string
	if err := json.Unmarshal(b.Type, &s); err != nil {
		return "", walleterr.New(walleterr.InvalidArgument, "jsonapi.builderSection.name", "builder.action or a string builder.type is required")
	}
	return s, nil
}

// Request is the JSON front door's request envelope (spec.md §4.10).
type Request struct {
	Blockchain string `json:"blockchain"`
	NetType    int32  `json:"net_type"`
	Account    struct {
		PrivateKey string `json:"private_key"`
	} `json:"account"`
	Builder     *builderSection `json:"builder"`
	Transaction txSection       `json:"transaction"`
}

// Response is the JSON front door's response envelope.
type Response struct {
	Transaction struct {
		Serialized string `json:"serialized"`
	} `json:"transaction"`
}

var blockchainByName = map[string]account.Blockchain{
	account.Bitcoin.String():  account.Bitcoin,
	account.Ethereum.String(): account.Ethereum,
	account.EOS.String():      account.EOS,
	account.Golos.String():    account.Golos,
}

func blockchainFromName(name string) (account.Blockchain, error) {
	bt, ok := blockchainByName[name]
	if !ok {
		return 0, walleterr.New(walleterr.InvalidArgument, "jsonapi.blockchainFromName", "unknown blockchain: "+name)
	}
	return bt, nil
}

// decodePrivateKey turns the account's serialized private key into a
// *primitive.PrivateKey. Every facade's MakeTransaction/MakeAccount
// already takes a *primitive.PrivateKey rather than a chain-native
// string form (WIF, hex, ...), so the front door decodes the field the
// same way it decodes any other byte-string property: raw hex by
// default, or an explicit "hex:"/"base32:"/"base58:" prefix.
func decodePrivateKey(s string) (*primitive.PrivateKey, error) {
	data, err := codec.Decode(s)
	if err != nil {
		return nil, err
	}
	return primitive.PrivateKeyFromBytes(data)
}

// decodeInt32 unmarshals a JSON number into an int32 property value.
func decodeInt32(raw json.RawMessage) (int32, error) {
	var n int32
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.decodeInt32", "expected a JSON integer", err)
	}
	return n, nil
}

// decodeBigInt accepts a JSON integer, a decimal string, or a
// "0x"-prefixed hex string, per spec.md §4.10's big-integer value rule.
func decodeBigInt(raw json.RawMessage) (*bigint.Int, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return bigint.ParseHexOrDecimal(s)
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.decodeBigInt", "expected a JSON integer, decimal string, or 0x hex string", err)
	}
	return bigint.FromDecimalString(num.String())
}

// decodeString unmarshals a JSON string property value.
func decodeString(raw json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.decodeString", "expected a JSON string", err)
	}
	return s, nil
}

// decodeByteString unmarshals a JSON string and runs it through
// codec.Decode, accepting raw hex or an explicit "hex:"/"base32:"/
// "base58:" prefix.
func decodeByteString(raw json.RawMessage) ([]byte, error) {
	s, err := decodeString(raw)
	if err != nil {
		return nil, err
	}
	return codec.Decode(s)
}

// decodeBoundPrivateKey unmarshals a JSON string byte-string-encoded
// private key property value (distinct from the account's own
// private_key field, used e.g. by Bitcoin's per-source signing key).
func decodeBoundPrivateKey(raw json.RawMessage) (*primitive.PrivateKey, error) {
	s, err := decodeString(raw)
	if err != nil {
		return nil, err
	}
	return decodePrivateKey(s)
}

// applyProperties sets every named value in payload onto props,
// consulting Properties.Kind to decode each JSON value the way its
// bound property expects.
func applyProperties(props *properties.Properties, payload map[string]json.RawMessage) error {
	for name, raw := range payload {
		kind, err := props.Kind(name)
		if err != nil {
			return err
		}
		var value any
		switch kind {
		case "int32":
			value, err = decodeInt32(raw)
		case "BigInt":
			value, err = decodeBigInt(raw)
		case "string":
			value, err = decodeString(raw)
		case "ByteString":
			value, err = decodeByteString(raw)
		case "PrivateKey":
			value, err = decodeBoundPrivateKey(raw)
		default:
			err = walleterr.New(walleterr.TypeMismatch, "jsonapi.applyProperties", "unknown property kind: "+kind)
		}
		if err != nil {
			return walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.applyProperties", "property "+name, err)
		}
		if err := props.SetProperty(name, value); err != nil {
			return err
		}
	}
	return nil
}

// Process decodes requestJSON, drives the named chain's facade through
// account construction, optional action-builder attachment, property
// population, and serialization, and returns the encoded response JSON.
func Process(requestJSON []byte) ([]byte, error) {
	var req Request
	if err := json.Unmarshal(requestJSON, &req); err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.Process", "malformed request body", err)
	}

	bt, err := blockchainFromName(req.Blockchain)
	if err != nil {
		return nil, err
	}
	facade, err := blockchain.Get(bt)
	if err != nil {
		return nil, err
	}
	netType := account.NetType(req.NetType)

	priv, err := decodePrivateKey(req.Account.PrivateKey)
	if err != nil {
		return nil, walleterr.Wrap(walleterr.InvalidArgument, "jsonapi.Process", "account.private_key", err)
	}

	tx, err := facade.MakeTransaction(priv, netType)
	if err != nil {
		return nil, err
	}

	if req.Builder != nil {
		name, err := req.Builder.name()
		if err != nil {
			return nil, err
		}
		builder, err := facade.MakeTransactionBuilder(name)
		if err != nil {
			return nil, err
		}
		if err := applyProperties(builder.Properties(), req.Builder.Payload); err != nil {
			return nil, err
		}
		if err := builder.Validate(); err != nil {
			return nil, err
		}
		if err := facade.AttachBuilder(tx, builder); err != nil {
			return nil, err
		}
	}

	if err := applyProperties(tx.TransactionProperties(), req.Transaction.Properties); err != nil {
		return nil, err
	}

	if len(req.Transaction.Fee) > 0 {
		feeProps, err := tx.Fee()
		if err != nil {
			return nil, err
		}
		if err := applyProperties(feeProps, req.Transaction.Fee); err != nil {
			return nil, err
		}
	}

	for _, payload := range req.Transaction.Sources {
		srcProps, err := tx.AddSource()
		if err != nil {
			return nil, err
		}
		if err := applyProperties(srcProps, payload); err != nil {
			return nil, err
		}
	}

	for _, payload := range req.Transaction.Destinations {
		dstProps, err := tx.AddDestination()
		if err != nil {
			return nil, err
		}
		if err := applyProperties(dstProps, payload); err != nil {
			return nil, err
		}
	}

	serialized, err := facade.EncodeSerializedTransaction(tx)
	if err != nil {
		return nil, err
	}

	var resp Response
	resp.Transaction.Serialized = serialized
	return json.Marshal(resp)
}
