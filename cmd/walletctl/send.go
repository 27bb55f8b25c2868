package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ledgerflow/walletcore/jsonapi"
	"github.com/ledgerflow/walletcore/walleterr"
)

var sendCmd = &cobra.Command{
	Use:   "send",
	Short: "Build and sign a transaction from a JSON request",
	Long: `Read a jsonapi.Request document from --request (or stdin) and
print the jsonapi.Response it produces: the chain's serialized
transaction envelope, ready to broadcast.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		requestPath, _ := cmd.Flags().GetString("request")

		var body []byte
		var err error
		if requestPath == "" || requestPath == "-" {
			body, err = io.ReadAll(os.Stdin)
		} else {
			body, err = os.ReadFile(requestPath)
		}
		if err != nil {
			return walleterr.Wrap(walleterr.General, "walletctl.send", "failed to read request body", err)
		}

		respBody, err := jsonapi.Process(body)
		if err != nil {
			return err
		}

		fmt.Println(string(respBody))
		return nil
	},
}

func init() {
	sendCmd.Flags().StringP("request", "r", "", "path to a JSON request file (default: read stdin)")
	rootCmd.AddCommand(sendCmd)
}
