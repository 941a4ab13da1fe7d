package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"rhai/interpreter-go/pkg/driver"
	"rhai/interpreter-go/pkg/interpreter"
)

var runCmd = &cobra.Command{
	Use:   "run <script.rhai>",
	Short: "Evaluate a script file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		script, err := filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("resolve script path: %w", err)
		}
		interp, err := newInterp(filepath.Dir(script))
		if err != nil {
			return err
		}
		value, err := interp.RunFile(script)
		if err != nil {
			logger.Error("script failed", "path", args[0], "err", err)
			return err
		}
		if !value.IsUnit() {
			fmt.Fprintln(cmd.OutOrStdout(), value.String())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
}

// newInterp builds an interpreter whose imports resolve against the
// script directory first, then the manifest's import roots, then the
// fetched dependency checkouts.
func newInterp(scriptDir string) (*interpreter.Interp, error) {
	hasher, err := buildHasher()
	if err != nil {
		return nil, err
	}
	interp := interpreter.NewWithHasher(hasher)

	chain := driver.NewResolverChain(driver.NewFileModuleResolver(scriptDir))
	manifest, err := loadManifestFrom(scriptDir)
	switch {
	case err == nil:
		logger.Debug("manifest loaded", "path", manifest.Path)
		for _, root := range manifest.ImportRoots() {
			chain.Append(driver.NewFileModuleResolver(root))
		}
		for _, dep := range manifest.Deps {
			dir := depCheckoutDir(manifest.Dir(), dep.Name)
			if info, statErr := os.Stat(dir); statErr != nil || !info.IsDir() {
				logger.Warn("dependency not fetched, run `rhai deps ensure`", "dep", dep.Name)
				continue
			}
			chain.Append(driver.NewFileModuleResolver(dir))
		}
	case errors.Is(err, errManifestNotFound):
		logger.Debug("no manifest, imports resolve against the script directory only")
	default:
		return nil, err
	}
	interp.SetResolver(chain)
	return interp, nil
}
