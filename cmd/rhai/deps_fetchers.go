package main

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	"rhai/interpreter-go/pkg/driver"
)

// fetchGitDep makes dir hold a checkout of dep at its requested
// revision and returns the resolved commit hash. A checkout that
// still matches the lock entry is reused; a pinned rev skips the
// network entirely in that case.
func fetchGitDep(dir string, dep *driver.ManifestDep, locked *driver.LockedDep) (string, error) {
	if dep.Tag == "" && dep.Rev != "" && locked != nil && strings.HasPrefix(locked.Revision, dep.Rev) {
		if checkoutMatchesLock(dir, locked) {
			logger.Debug("pinned rev up to date", "dep", dep.Name)
			return locked.Revision, nil
		}
	}

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return "", err
	}
	tmpDir, err := os.MkdirTemp(parent, "rhai-fetch-*")
	if err != nil {
		return "", err
	}
	// PlainClone insists on creating the directory itself.
	if err := os.RemoveAll(tmpDir); err != nil {
		return "", err
	}

	repo, err := git.PlainClone(tmpDir, false, &git.CloneOptions{
		URL:               dep.Git,
		Depth:             0,
		RecurseSubmodules: git.DefaultSubmoduleRecursionDepth,
	})
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git clone %s: %w", dep.Git, err)
	}

	revision := gitRevisionFor(dep)
	hash, err := repo.ResolveRevision(revision)
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("resolve revision %s: %w", revision, err)
	}

	// The tag or head may resolve to what the lock already holds.
	if locked != nil && locked.Revision == hash.String() && checkoutMatchesLock(dir, locked) {
		_ = os.RemoveAll(tmpDir)
		logger.Debug("checkout up to date", "dep", dep.Name)
		return locked.Revision, nil
	}

	worktree, err := repo.Worktree()
	if err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := worktree.Checkout(&git.CheckoutOptions{
		Hash:  *hash,
		Force: true,
	}); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", fmt.Errorf("git checkout %s: %w", revision, err)
	}

	if err := os.RemoveAll(dir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	if err := os.Rename(tmpDir, dir); err != nil {
		_ = os.RemoveAll(tmpDir)
		return "", err
	}
	return hash.String(), nil
}

// gitRevisionFor maps a manifest descriptor to a git revision. Tag
// wins over Rev, matching the manifest contract; with neither set the
// remote head is fetched.
func gitRevisionFor(dep *driver.ManifestDep) plumbing.Revision {
	if tag := strings.TrimSpace(dep.Tag); tag != "" {
		return plumbing.Revision("refs/tags/" + tag)
	}
	if rev := strings.TrimSpace(dep.Rev); rev != "" {
		return plumbing.Revision(rev)
	}
	return plumbing.Revision("HEAD")
}

func checkoutMatchesLock(dir string, locked *driver.LockedDep) bool {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return false
	}
	sum, err := dirChecksum(dir)
	if err != nil {
		return false
	}
	return sum == locked.Checksum
}

// dirChecksum hashes every file under path, skipping .git bookkeeping
// so the sum reflects checkout content only.
func dirChecksum(path string) (string, error) {
	h := sha256.New()
	err := filepath.WalkDir(path, func(p string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(path, p)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		h.Write([]byte(filepath.ToSlash(rel)))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

func sanitizePathSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	if segment == "" {
		return "dep"
	}
	var b strings.Builder
	for _, r := range segment {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '.' || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	result := b.String()
	if result == "" {
		return "dep"
	}
	return result
}
