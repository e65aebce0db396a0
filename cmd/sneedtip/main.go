package main

import (
	"fmt"
	"os"

	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/spf13/cobra"
)

var (
	subaccountKind  string
	subaccountValue string
)

var rootCmd = &cobra.Command{
	Use:           "sneedtip",
	Short:         "Account parsing, tipping and voting against forum and ledger canisters",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func explicitSubaccount() *address.SubaccountInput {
	if subaccountValue == "" {
		return nil
	}
	return &address.SubaccountInput{Kind: address.Kind(subaccountKind), Value: subaccountValue}
}

var parseCmd = &cobra.Command{
	Use:   "parse <account>",
	Short: "Parse a principal or extended account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := address.ParseAccount(args[0], explicitSubaccount())
		if err != nil {
			return err
		}
		printAccount(cmd, acc)
		return nil
	},
}

var encodeCmd = &cobra.Command{
	Use:   "encode <principal>",
	Short: "Encode a principal and subaccount as an extended account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := address.ParseAccount(args[0], explicitSubaccount())
		if err != nil {
			return err
		}
		text, err := address.EncodeExtended(acc)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), text)
		return nil
	},
}

var accountIdCmd = &cobra.Command{
	Use:   "account-id <account>",
	Short: "Print the ledger account identifier of an account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		acc, err := address.ParseAccount(args[0], explicitSubaccount())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), address.AccountIdentifierOf(acc).String())
		return nil
	},
}

func printAccount(cmd *cobra.Command, acc address.Account) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Principal: %s\n", acc.Owner.String())
	if acc.Subaccount != nil {
		fmt.Fprintf(out, "Subaccount: %s (%s)\n", acc.Subaccount.Bytes.String(), acc.Subaccount.Kind)
	} else {
		fmt.Fprintln(out, "Subaccount: default")
	}
	fmt.Fprintf(out, "Account: %s\n", acc.String())
	fmt.Fprintf(out, "Account ID: %s\n", address.AccountIdentifierOf(acc).String())
}

func init() {
	for _, c := range []*cobra.Command{parseCmd, encodeCmd, accountIdCmd} {
		c.Flags().StringVar(&subaccountKind, "kind", string(address.KindHex), "subaccount kind: hex, bytes or principal")
		c.Flags().StringVar(&subaccountValue, "subaccount", "", "explicit subaccount")
	}
	rootCmd.AddCommand(parseCmd, encodeCmd, accountIdCmd, serveCmd, shellCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
