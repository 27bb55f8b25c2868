// Command walletctl is the CLI front door for this module's wallet
// core: generate a mnemonic, derive an address on any of the four
// supported chains, print a chain's property specification, or build
// and sign a transaction from a JSON request. It is grounded on
// Jasonyou1995-simple-eth-hd-wallet's internal/cli package (a cobra
// root command with a persistent --config/--verbose flag pair read
// through viper), generalized here from an Ethereum-only "derive"/
// "generate" pair to every command the blockchain/jsonapi packages
// expose.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "1.0.0"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:     "walletctl",
	Short:   "Cross-chain HD wallet and transaction builder",
	Version: version,
	Long: `walletctl derives BIP32/BIP44 hierarchical-deterministic
addresses and builds signed transactions for Bitcoin, Ethereum, EOS, and
Golos from a single binary, backed by this module's account/transaction/
blockchain packages.`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.walletctl.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "print private keys and full transaction detail")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".walletctl")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
