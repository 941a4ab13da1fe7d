package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"rhai/interpreter-go/pkg/runtime"
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Evaluate lines interactively against a persistent scope",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		interp, err := newInterp(cwd)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		interp.SetOutput(out)

		scope := runtime.NewScope()
		in := bufio.NewScanner(cmd.InOrStdin())
		fmt.Fprint(out, "rhai> ")
		for in.Scan() {
			line := strings.TrimSpace(in.Text())
			switch line {
			case "":
				fmt.Fprint(out, "rhai> ")
				continue
			case "exit", "quit":
				return nil
			}
			value, err := interp.EvalWithScope(line, scope)
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			} else if !value.IsUnit() {
				fmt.Fprintln(out, value.String())
			}
			fmt.Fprint(out, "rhai> ")
		}
		return in.Err()
	},
}

func init() {
	rootCmd.AddCommand(replCmd)
}
