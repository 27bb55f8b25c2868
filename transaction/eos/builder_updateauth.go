package eos

import (
	"github.com/ledgerflow/walletcore/binary"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/properties"
	"github.com/ledgerflow/walletcore/walleterr"
)

// eosioAccount and updateauthName are the fixed system-contract target
// every updateauth action carries.
const (
	eosioAccount   = "eosio"
	updateauthName = "updateauth"
)

// k1KeyType is the key-type tag written before a packed K1 public key,
// matching the variant discriminant EOS's authority binary format uses
// (0 selects the single currently-supported curve, secp256k1/K1).
const k1KeyType = 0

// UpdateauthAction is the "eosio::updateauth" system action: it replaces
// one named permission (e.g. "active") on Subject with a single-key
// authority of the given weight and threshold. No implementation of this
// builder exists in the reference sources (only its factory declaration,
// eos_transaction_builder_updateauth.h), so its action-data layout is
// grounded directly on the EOS native "authority" binary structure:
// threshold(u32) + keys(varint-counted [key(34b), weight(u16)]) +
// accounts(varint 0) + waits(varint 0).
type UpdateauthAction struct {
	Subject    EosName
	Permission EosName
	Parent     EosName
	Key        *primitive.PublicKey
	Threshold  uint32
	KeyWeight  uint16
}

// Account implements Action: the action targets the eosio system
// contract, not Subject — Subject is instead the sole authorization
// actor, since only an account can authorize changes to its own
// permissions.
func (u *UpdateauthAction) Account() EosName { return mustEosName(eosioAccount) }
func (u *UpdateauthAction) Name() EosName    { return mustEosName(updateauthName) }

func (u *UpdateauthAction) Authorizations() []Authorization {
	return []Authorization{{Actor: u.Subject, Permission: mustEosName("active")}}
}

func (u *UpdateauthAction) Data() ([]byte, error) {
	s := binary.NewStream()
	s.WriteUint64LE(uint64(u.Subject))
	s.WriteUint64LE(uint64(u.Permission))
	s.WriteUint64LE(uint64(u.Parent))
	s.WriteUint32LE(u.Threshold)
	s.WriteCompactSize(1)
	s.WriteUint8(k1KeyType)
	s.WriteBytes(u.Key.Compressed())
	s.WriteUint16LE(u.KeyWeight)
	s.WriteCompactSize(0) // accounts
	s.WriteCompactSize(0) // waits
	return s.Bytes(), nil
}

var _ Action = (*UpdateauthAction)(nil)

// UpdateauthBuilder builds an UpdateauthAction from account/permission/
// parent/public_key/threshold/weight properties.
type UpdateauthBuilder struct {
	props      *properties.Properties
	account    *properties.Property[string]
	permission *properties.Property[string]
	parent     *properties.Property[string]
	publicKey  *properties.Property[[]byte]
	threshold  *properties.Property[int32]
	keyWeight  *properties.Property[int32]
}

// NewUpdateauthBuilder returns an UpdateauthBuilder with its property
// group ready to populate.
func NewUpdateauthBuilder() *UpdateauthBuilder {
	props := properties.New("EosTransactionBuilderUpdateauth")
	return &UpdateauthBuilder{
		props:      props,
		account:    properties.BindString(props, "account", properties.Required, eosNamePredicate),
		permission: properties.BindString(props, "permission", properties.Required, eosNamePredicate),
		parent:     properties.BindString(props, "parent", properties.Optional, eosNamePredicate),
		publicKey:  properties.BindByteString(props, "public_key", properties.Required, exactly33Bytes),
		threshold:  properties.BindInt32(props, "threshold", properties.Optional, nil),
		keyWeight:  properties.BindInt32(props, "weight", properties.Optional, nil),
	}
}

func exactly33Bytes(b []byte) error {
	if len(b) != 33 {
		return walleterr.New(walleterr.InvalidArgument, "eos.exactly33Bytes", "public key must be 33 compressed bytes")
	}
	return nil
}

// Properties returns the builder's account/permission/parent/public_key/
// threshold/weight property group.
func (b *UpdateauthBuilder) Properties() *properties.Properties { return b.props }

// Validate checks that account, permission, and public_key are set.
func (b *UpdateauthBuilder) Validate() error { return b.props.Validate() }

// Build produces the eosio::updateauth Action.
func (b *UpdateauthBuilder) Build() (Action, error) {
	accountStr, err := b.account.Get()
	if err != nil {
		return nil, err
	}
	permissionStr, err := b.permission.Get()
	if err != nil {
		return nil, err
	}
	subject, err := ParseEosName(accountStr)
	if err != nil {
		return nil, err
	}
	permissionName, err := ParseEosName(permissionStr)
	if err != nil {
		return nil, err
	}
	parentName := mustEosName("owner")
	if b.parent.IsSet() {
		parentStr, _ := b.parent.Get()
		parentName, err = ParseEosName(parentStr)
		if err != nil {
			return nil, err
		}
	}
	keyBytes, err := b.publicKey.Get()
	if err != nil {
		return nil, err
	}
	key, err := primitive.PublicKeyFromCompressed(keyBytes)
	if err != nil {
		return nil, err
	}
	threshold := uint32(b.threshold.GetOrDefault(1))
	weight := uint16(b.keyWeight.GetOrDefault(1))
	return &UpdateauthAction{
		Subject:    subject,
		Permission: permissionName,
		Parent:     parentName,
		Key:        key,
		Threshold:  threshold,
		KeyWeight:  weight,
	}, nil
}

var _ Builder = (*UpdateauthBuilder)(nil)
