package blockchain

import (
	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/transaction/ethereum"
	"github.com/ledgerflow/walletcore/walleterr"
)

// ethereumCoinType is Ethereum's registered SLIP-44 coin type.
const ethereumCoinType = 60

type ethereumFacade struct{}

func (ethereumFacade) Blockchain() account.Blockchain { return account.Ethereum }
func (ethereumFacade) CoinType() uint32               { return ethereumCoinType }

func (ethereumFacade) MakeHDAccount(master *hdpath.ExtendedKey, netType account.NetType, accountIndex uint32) (*account.HDAccount, error) {
	bt := account.BlockchainType{Blockchain: account.Ethereum, NetType: netType}
	return account.NewHDAccount(master, bt, ethereumCoinType, accountIndex, account.EthereumLeafFactory(netType))
}

func (ethereumFacade) MakeAccount(priv *primitive.PrivateKey, path hdpath.Path, netType account.NetType) (account.Account, error) {
	return account.NewEthereumAccount(priv, path, netType), nil
}

func (ethereumFacade) MakeTransaction(priv *primitive.PrivateKey, netType account.NetType) (transaction.Transaction, error) {
	return ethereum.New(priv, netType), nil
}

func (ethereumFacade) MakeTransactionBuilder(name string) (TransactionBuilder, error) {
	return nil, walleterr.New(walleterr.FeatureNotSupported, "blockchain.ethereumFacade.MakeTransactionBuilder", "ethereum has no named transaction builders")
}

func (ethereumFacade) ValidateAddress(addr string, netType account.NetType) error {
	return account.ValidateEthereumAddress(addr)
}

func (ethereumFacade) EncodeSerializedTransaction(tx transaction.Transaction) (string, error) {
	return tx.EncodeSerialized()
}

func (ethereumFacade) AttachBuilder(tx transaction.Transaction, builder TransactionBuilder) error {
	return walleterr.New(walleterr.FeatureNotSupported, "blockchain.ethereumFacade.AttachBuilder", "ethereum transactions don't accept external action builders")
}

var _ Facade = ethereumFacade{}
