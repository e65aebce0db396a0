package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/Snassy-icp/app-sneeddao-sub012/core/tip"
	"github.com/Snassy-icp/app-sneeddao-sub012/utils/address"
	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var historyFile string

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Check accounts interactively",
	Long: `Reads one account per line and prints how it parses.
A line of the form "<account> <kind>:<value>" adds an explicit subaccount.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rl, err := readline.NewEx(&readline.Config{
			Prompt:          "account> ",
			HistoryFile:     historyFile,
			InterruptPrompt: "^C",
			EOFPrompt:       "exit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()
		for {
			line, err := rl.Readline()
			if err == readline.ErrInterrupt {
				if line == "" {
					return nil
				}
				continue
			}
			if err == io.EOF {
				return nil
			}
			if err != nil {
				return err
			}
			line = strings.TrimSpace(line)
			if line == "" {
				continue
			}
			if line == "exit" || line == "quit" {
				return nil
			}
			text, in := splitShellLine(line)
			acc, err := address.ParseAccount(text, in)
			if err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "invalid: %s (%v)\n", tip.UserMessage(err), err)
				continue
			}
			printAccount(cmd, acc)
		}
	},
}

func splitShellLine(line string) (string, *address.SubaccountInput) {
	text, rest, found := strings.Cut(line, " ")
	if !found {
		return line, nil
	}
	kind, value, found := strings.Cut(strings.TrimSpace(rest), ":")
	if !found {
		return text, &address.SubaccountInput{Kind: address.KindHex, Value: kind}
	}
	return text, &address.SubaccountInput{Kind: address.Kind(kind), Value: value}
}

func init() {
	shellCmd.Flags().StringVar(&historyFile, "history", "", "history file")
}
