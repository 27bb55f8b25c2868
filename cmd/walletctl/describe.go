package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ledgerflow/walletcore/account"
	"github.com/ledgerflow/walletcore/blockchain"
	"github.com/ledgerflow/walletcore/primitive"
)

// describeKeyPlaceholder is a fixed, never-used scalar that satisfies
// primitive.PrivateKeyFromBytes just well enough to build an otherwise
// empty transaction for introspection; describe never signs anything.
var describeKeyPlaceholder = func() *primitive.PrivateKey {
	data := make([]byte, 32)
	data[31] = 1
	priv, err := primitive.PrivateKeyFromBytes(data)
	if err != nil {
		panic(err)
	}
	return priv
}()

var describeCmd = &cobra.Command{
	Use:   "describe",
	Short: "Print a chain's property specification",
	Long: `Print the names, kinds, and required/optional/readonly traits of
every property a chain's transaction, fee, source, and destination
groups bind — using Properties.Specification() on a scratch transaction
that is never signed or serialized.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		chainName, _ := cmd.Flags().GetString("blockchain")
		builderName, _ := cmd.Flags().GetString("builder")

		bt, err := blockchainFromName(chainName)
		if err != nil {
			return err
		}
		facade, err := blockchain.Get(bt)
		if err != nil {
			return err
		}

		tx, err := facade.MakeTransaction(describeKeyPlaceholder, account.NetMainnet)
		if err != nil {
			return err
		}

		fmt.Println("transaction:")
		fmt.Println(tx.TransactionProperties().Specification())

		if feeProps, err := tx.Fee(); err == nil {
			fmt.Println("\nfee:")
			fmt.Println(feeProps.Specification())
		}

		if srcProps, err := tx.AddSource(); err == nil {
			fmt.Println("\nsource:")
			fmt.Println(srcProps.Specification())
		}
		if dstProps, err := tx.AddDestination(); err == nil {
			fmt.Println("\ndestination:")
			fmt.Println(dstProps.Specification())
		}

		if builderName != "" {
			builder, err := facade.MakeTransactionBuilder(builderName)
			if err != nil {
				return err
			}
			fmt.Printf("\nbuilder %q:\n", builderName)
			fmt.Println(builder.Properties().Specification())
		}

		return nil
	},
}

func init() {
	describeCmd.Flags().StringP("blockchain", "b", "bitcoin", "bitcoin, ethereum, eos, or golos")
	describeCmd.Flags().String("builder", "", "also describe a named action builder (eos: transfer, updateauth)")
	rootCmd.AddCommand(describeCmd)
}
