package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rhai/interpreter-go/pkg/parser"
)

var checkCmd = &cobra.Command{
	Use:   "check <script.rhai>",
	Short: "Parse a script and report diagnostics without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		src, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		prog, err := parser.Parse(string(src))
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		logger.Debug("parsed", "statements", len(prog.Stmts), "functions", len(prog.Functions))
		fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
