package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tyler-smith/go-bip39"

	"github.com/ledgerflow/walletcore/walleterr"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new BIP-39 mnemonic and its seed",
	Long: `Generate a cryptographically secure BIP-39 mnemonic phrase and
derive its 64-byte seed, the input hdpath.MasterKeyFromSeed expects.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		bits, _ := cmd.Flags().GetInt("bits")
		if bits != 128 && bits != 160 && bits != 192 && bits != 224 && bits != 256 {
			return walleterr.New(walleterr.InvalidArgument, "walletctl.generate", "entropy bits must be 128, 160, 192, 224, or 256")
		}

		entropy, err := bip39.NewEntropy(bits)
		if err != nil {
			return walleterr.Wrap(walleterr.BadEntropy, "walletctl.generate", "failed to read entropy", err)
		}
		mnemonic, err := bip39.NewMnemonic(entropy)
		if err != nil {
			return walleterr.Wrap(walleterr.General, "walletctl.generate", "failed to build mnemonic", err)
		}
		seed := bip39.NewSeed(mnemonic, "")

		fmt.Printf("Mnemonic: %s\n", mnemonic)
		if viper.GetBool("verbose") {
			fmt.Printf("Seed:     %s\n", hex.EncodeToString(seed))
		}
		return nil
	},
}

func init() {
	generateCmd.Flags().IntP("bits", "b", 256, "entropy bits (128, 160, 192, 224, or 256)")
	rootCmd.AddCommand(generateCmd)
}
