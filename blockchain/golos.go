package blockchain

import (
	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/transaction/golos"
	"github.com/ledgerflow/walletcore/walleterr"
)

// golosCoinType is this module's own coin type for Golos, which has no
// registered SLIP-44 entry.
const golosCoinType = 977

type golosFacade struct{}

func (golosFacade) Blockchain() account.Blockchain { return account.Golos }
func (golosFacade) CoinType() uint32               { return golosCoinType }

func (golosFacade) MakeHDAccount(master *hdpath.ExtendedKey, netType account.NetType, accountIndex uint32) (*account.HDAccount, error) {
	bt := account.BlockchainType{Blockchain: account.Golos, NetType: netType}
	return account.NewHDAccount(master, bt, golosCoinType, accountIndex, account.GolosLeafFactory(netType))
}

func (golosFacade) MakeAccount(priv *primitive.PrivateKey, path hdpath.Path, netType account.NetType) (account.Account, error) {
	return account.NewGolosAccount(priv, path, netType), nil
}

func (golosFacade) MakeTransaction(priv *primitive.PrivateKey, netType account.NetType) (transaction.Transaction, error) {
	return golos.New(priv, netType), nil
}

func (golosFacade) MakeTransactionBuilder(name string) (TransactionBuilder, error) {
	return nil, walleterr.New(walleterr.FeatureNotSupported, "blockchain.golosFacade.MakeTransactionBuilder", "golos has no named transaction builders")
}

func (golosFacade) ValidateAddress(addr string, netType account.NetType) error {
	return golos.ValidateAddress(addr)
}

func (golosFacade) EncodeSerializedTransaction(tx transaction.Transaction) (string, error) {
	return tx.EncodeSerialized()
}

func (golosFacade) AttachBuilder(tx transaction.Transaction, builder TransactionBuilder) error {
	return walleterr.New(walleterr.FeatureNotSupported, "blockchain.golosFacade.AttachBuilder", "golos transactions don't accept external action builders")
}

var _ Facade = golosFacade{}
