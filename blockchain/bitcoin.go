package blockchain

import (
	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/primitive"
	"github.com/ledgerflow/walletcore/transaction"
	"github.com/ledgerflow/walletcore/transaction/bitcoin"
	"github.com/ledgerflow/walletcore/walleterr"
)

// bitcoinCoinType is Bitcoin's registered SLIP-44 coin type.
const bitcoinCoinType = 0

type bitcoinFacade struct{}

func (bitcoinFacade) Blockchain() account.Blockchain { return account.Bitcoin }
func (bitcoinFacade) CoinType() uint32               { return bitcoinCoinType }

func (bitcoinFacade) MakeHDAccount(master *hdpath.ExtendedKey, netType account.NetType, accountIndex uint32) (*account.HDAccount, error) {
	bt := account.BlockchainType{Blockchain: account.Bitcoin, NetType: netType}
	return account.NewHDAccount(master, bt, bitcoinCoinType, accountIndex, account.BitcoinLeafFactory(netType))
}

func (bitcoinFacade) MakeAccount(priv *primitive.PrivateKey, path hdpath.Path, netType account.NetType) (account.Account, error) {
	return account.NewBitcoinAccount(priv, path, netType), nil
}

// MakeTransaction ignores priv: Bitcoin is a multi-source transaction
// where each source carries its own signing key as a "private_key"
// property, set per-source after AddSource.
func (bitcoinFacade) MakeTransaction(priv *primitive.PrivateKey, netType account.NetType) (transaction.Transaction, error) {
	return bitcoin.New(netType), nil
}

func (bitcoinFacade) MakeTransactionBuilder(name string) (TransactionBuilder, error) {
	return nil, walleterr.New(walleterr.FeatureNotSupported, "blockchain.bitcoinFacade.MakeTransactionBuilder", "bitcoin has no named transaction builders")
}

func (bitcoinFacade) ValidateAddress(addr string, netType account.NetType) error {
	return account.ValidateBitcoinAddress(addr, netType)
}

func (bitcoinFacade) EncodeSerializedTransaction(tx transaction.Transaction) (string, error) {
	return tx.EncodeSerialized()
}

func (bitcoinFacade) AttachBuilder(tx transaction.Transaction, builder TransactionBuilder) error {
	return walleterr.New(walleterr.FeatureNotSupported, "blockchain.bitcoinFacade.AttachBuilder", "bitcoin transactions don't accept external action builders")
}

var _ Facade = bitcoinFacade{}
