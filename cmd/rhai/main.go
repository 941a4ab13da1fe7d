package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"rhai/interpreter-go/pkg/runtime"
)

// Populated at release time via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var (
	flagVerbose  bool
	flagHashSeed string
)

var logger = log.NewWithOptions(os.Stderr, log.Options{Prefix: "rhai"})

var rootCmd = &cobra.Command{
	Use:   "rhai",
	Short: "Evaluate rhai scripts and manage their dependencies",
	Long: `rhai runs script files, resolving their imports against the script
directory, the manifest's import roots, and dependency checkouts
fetched under .rhai/deps.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagVerbose {
			logger.SetLevel(log.DebugLevel)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&flagHashSeed, "hash-seed", "", "64 hex characters pinning the dispatch hash seed")
}

// buildHasher honors --hash-seed so repeated runs can report identical
// hashes; without the flag every process gets a fresh random seed.
func buildHasher() (runtime.Hasher, error) {
	if flagHashSeed == "" {
		return runtime.NewHasher(), nil
	}
	seed, err := runtime.ParseSeed(flagHashSeed)
	if err != nil {
		return runtime.Hasher{}, fmt.Errorf("--hash-seed: %w", err)
	}
	return runtime.NewHasherWithSeed(seed), nil
}

func buildVersion() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, date)
}

func main() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(buildVersion()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}
