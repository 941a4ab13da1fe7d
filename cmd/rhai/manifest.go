package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"rhai/interpreter-go/pkg/driver"
)

var errManifestNotFound = errors.New("rhai.yml not found")

// loadManifestFrom walks from start toward the filesystem root and
// loads the nearest rhai.yml. A missing manifest is reported with
// errManifestNotFound so callers can treat it as optional.
func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, driver.DefaultManifestName)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return driver.LoadManifest(candidate)
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return nil, fmt.Errorf("no %s found from %s upwards: %w", driver.DefaultManifestName, origin, errManifestNotFound)
		}
		dir = parent
	}
}

// depCacheDir is where fetched dependency checkouts live, relative to
// the manifest directory.
func depCacheDir(manifestDir string) string {
	return filepath.Join(manifestDir, ".rhai", "deps")
}

// depCheckoutDir is the checkout directory for a single dependency.
func depCheckoutDir(manifestDir, name string) string {
	return filepath.Join(depCacheDir(manifestDir), sanitizePathSegment(name))
}

// lockfilePath is rhai.lock next to the manifest.
func lockfilePath(manifestDir string) string {
	return filepath.Join(manifestDir, driver.DefaultLockfileName)
}
