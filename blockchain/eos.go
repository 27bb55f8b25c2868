package blockchain

import (
	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/transaction/eos"
	"github.com/ledgerflow/walletcore/walleterr"
)

// eosCoinType is EOS's registered SLIP-44 coin type.
const eosCoinType = 194

type eosFacade struct{}

func (eosFacade) Blockchain() account.Blockchain { return account.EOS }
func (eosFacade) CoinType() uint32               { return eosCoinType }

func (eosFacade) MakeHDAccount(master *hdpath.ExtendedKey, netType account.NetType, accountIndex uint32) (*account.HDAccount, error) {
	bt := account.BlockchainType{Blockchain: account.EOS, NetType: netType}
	return account.NewHDAccount(master, bt, eosCoinType, accountIndex, account.EosLeafFactory(netType))
}

func (eosFacade) MakeAccount(priv *primitive.PrivateKey, path hdpath.Path, netType account.NetType) (account.Account, error) {
	return account.NewEosAccount(priv, path, netType), nil
}

func (eosFacade) MakeTransaction(priv *primitive.PrivateKey, netType account.NetType) (transaction.Transaction, error) {
	return eos.New(priv, netType), nil
}

// MakeTransactionBuilder returns the named action builder: "transfer"
// yields a standalone eos.TransferBuilder, "updateauth" an
// eos.UpdateauthBuilder. A caller registers one on an EOS transaction
// with AttachBuilder.
func (eosFacade) MakeTransactionBuilder(name string) (TransactionBuilder, error) {
	switch name {
	case "transfer":
		return eos.NewTransferBuilder(), nil
	case "updateauth":
		return eos.NewUpdateauthBuilder(), nil
	default:
		return nil, walleterr.New(walleterr.InvalidArgument, "blockchain.eosFacade.MakeTransactionBuilder", "unknown eos transaction builder: "+name)
	}
}

func (eosFacade) ValidateAddress(addr string, netType account.NetType) error {
	return eos.ValidateAddress(addr)
}

func (eosFacade) EncodeSerializedTransaction(tx transaction.Transaction) (string, error) {
	return tx.EncodeSerialized()
}

// AttachBuilder registers builder's action on tx, which must be an
// *eos.Transaction, the only chain whose transaction accepts externally
// built actions.
func (eosFacade) AttachBuilder(tx transaction.Transaction, builder TransactionBuilder) error {
	eosTx, ok := tx.(*eos.Transaction)
	if !ok {
		return walleterr.New(walleterr.InvalidArgument, "blockchain.eosFacade.AttachBuilder", "tx is not an eos transaction")
	}
	eosBuilder, ok := builder.(eos.Builder)
	if !ok {
		return walleterr.New(walleterr.InvalidArgument, "blockchain.eosFacade.AttachBuilder", "builder is not an eos action builder")
	}
	eosTx.AddActionBuilder(eosBuilder)
	return nil
}

var _ Facade = eosFacade{}
