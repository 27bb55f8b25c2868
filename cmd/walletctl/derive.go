package main

import (
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tyler-smith/go-bip39"

	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/blockchain"
	"github.com/ledgerflow/walletcore/hdpath"
	"github.com/ledgerflow/walletcore/walleterr"
)

var deriveCmd = &cobra.Command{
	Use:   "derive",
	Short: "Derive an address on a chain's BIP44 tree",
	Long: `Derive the address at m/44'/coin_type'/account'/change/index for
the named chain, from either --mnemonic or a raw --seed. Default
derivation path follows BIP-44 standard: m/44'/coin_type'/0'/0/0.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		mnemonic, _ := cmd.Flags().GetString("mnemonic")
		seedHex, _ := cmd.Flags().GetString("seed")
		chainName, _ := cmd.Flags().GetString("blockchain")
		netTypeInt, _ := cmd.Flags().GetInt("net-type")
		accountIndex, _ := cmd.Flags().GetUint32("account")
		change, _ := cmd.Flags().GetUint32("change")
		index, _ := cmd.Flags().GetUint32("index")

		var seed []byte
		switch {
		case mnemonic != "":
			if !bip39.IsMnemonicValid(mnemonic) {
				return walleterr.New(walleterr.InvalidArgument, "walletctl.derive", "invalid BIP-39 mnemonic")
			}
			seed = bip39.NewSeed(mnemonic, "")
		case seedHex != "":
			var err error
			seed, err = hex.DecodeString(seedHex)
			if err != nil {
				return walleterr.Wrap(walleterr.InvalidArgument, "walletctl.derive", "invalid --seed hex", err)
			}
		default:
			return walleterr.New(walleterr.InvalidArgument, "walletctl.derive", "one of --mnemonic or --seed is required")
		}

		bt, err := blockchainFromName(chainName)
		if err != nil {
			return err
		}
		netType := account.NetType(netTypeInt)

		netParams := &chaincfg.MainNetParams
		if netType == account.NetTestnet {
			netParams = &chaincfg.TestNet3Params
		}

		master, err := hdpath.MasterKeyFromSeed(seed, netParams)
		if err != nil {
			return err
		}

		facade, err := blockchain.Get(bt)
		if err != nil {
			return err
		}

		hdAccount, err := facade.MakeHDAccount(master, netType, accountIndex)
		if err != nil {
			return err
		}

		leaf, err := hdAccount.Leaf(account.AddressType(change), index)
		if err != nil {
			return err
		}

		addr, err := leaf.Address()
		if err != nil {
			return err
		}

		fmt.Printf("Blockchain: %s\n", bt)
		fmt.Printf("Path:       %s\n", leaf.Path())
		fmt.Printf("Address:    %s\n", addr)

		if viper.GetBool("verbose") {
			fmt.Printf("Private:    %s\n", hex.EncodeToString(leaf.PrivateKey().Bytes()))
			fmt.Printf("Public:     %s\n", hex.EncodeToString(leaf.PublicKey().Compressed()))
		}
		return nil
	},
}

func blockchainFromName(name string) (account.Blockchain, error) {
	switch name {
	case account.Bitcoin.String():
		return account.Bitcoin, nil
	case account.Ethereum.String():
		return account.Ethereum, nil
	case account.EOS.String():
		return account.EOS, nil
	case account.Golos.String():
		return account.Golos, nil
	default:
		return 0, walleterr.New(walleterr.InvalidArgument, "walletctl.blockchainFromName", "unknown blockchain: "+name)
	}
}

func init() {
	deriveCmd.Flags().StringP("mnemonic", "m", "", "BIP-39 mnemonic phrase")
	deriveCmd.Flags().String("seed", "", "hex-encoded BIP32 seed (alternative to --mnemonic)")
	deriveCmd.Flags().StringP("blockchain", "b", "bitcoin", "bitcoin, ethereum, eos, or golos")
	deriveCmd.Flags().Int("net-type", 0, "0 for mainnet, 1 for testnet")
	deriveCmd.Flags().Uint32P("account", "a", 0, "BIP44 account index")
	deriveCmd.Flags().Uint32("change", 0, "0 for external, 1 for internal (change)")
	deriveCmd.Flags().Uint32P("index", "i", 0, "address index")
	rootCmd.AddCommand(deriveCmd)
}
