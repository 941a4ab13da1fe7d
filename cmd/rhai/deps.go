package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"rhai/interpreter-go/pkg/driver"
)

var depsCmd = &cobra.Command{
	Use:   "deps",
	Short: "Manage manifest dependencies",
}

var depsEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Fetch git dependencies into .rhai/deps and refresh rhai.lock",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("resolve working directory: %w", err)
		}
		manifest, err := loadManifestFrom(cwd)
		if err != nil {
			return err
		}
		return ensureDeps(manifest)
	},
}

func init() {
	depsCmd.AddCommand(depsEnsureCmd)
	rootCmd.AddCommand(depsCmd)
}

// ensureDeps brings every manifest dependency checkout up to date and
// rewrites the lockfile with the resolved revisions. Checkouts whose
// lock entry still matches are left alone.
func ensureDeps(manifest *driver.Manifest) error {
	lockPath := lockfilePath(manifest.Dir())
	prev, err := driver.LoadLockfile(lockPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		prev = nil
	}

	lock := driver.NewLockfile("rhai " + version)
	for _, dep := range manifest.Deps {
		var locked *driver.LockedDep
		if prev != nil {
			if entry, ok := prev.Dep(dep.Name); ok && entry.Git == dep.Git {
				locked = entry
			}
		}
		dir := depCheckoutDir(manifest.Dir(), dep.Name)
		revision, err := fetchGitDep(dir, dep, locked)
		if err != nil {
			return fmt.Errorf("dependency %q: %w", dep.Name, err)
		}
		checksum, err := dirChecksum(dir)
		if err != nil {
			return fmt.Errorf("dependency %q: checksum: %w", dep.Name, err)
		}
		lock.Put(&driver.LockedDep{
			Name:     dep.Name,
			Git:      dep.Git,
			Revision: revision,
			Checksum: checksum,
		})
		logger.Info("dependency ready", "dep", dep.Name, "revision", shortHash(revision))
	}

	if err := driver.WriteLockfile(lock, lockPath); err != nil {
		return err
	}
	logger.Debug("lockfile written", "path", lockPath, "deps", len(lock.Deps))
	return nil
}

func shortHash(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
