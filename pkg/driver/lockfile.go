package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultLockfileName is the resolved-dependency lockfile name.
const DefaultLockfileName = "rhai.lock"

// Lockfile models rhai.lock: the exact revision and content checksum
// each manifest dependency resolved to.
type Lockfile struct {
	Path      string
	Generated string
	Tool      string
	Deps      []*LockedDep
}

// LockedDep captures a single resolved dependency entry.
type LockedDep struct {
	Name     string
	Git      string
	Revision string
	Checksum string
}

// NewLockfile constructs an empty lockfile stamped for the given tool.
func NewLockfile(tool string) *Lockfile {
	return &Lockfile{
		Generated: time.Now().UTC().Format(time.RFC3339),
		Tool:      strings.TrimSpace(tool),
		Deps:      []*LockedDep{},
	}
}

// LoadLockfile parses rhai.lock from disk.
func LoadLockfile(path string) (*Lockfile, error) {
	if path == "" {
		return nil, fmt.Errorf("lockfile: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw lockfileDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("lockfile: parse %s: %w", abs, err)
	}

	lock := raw.toLockfile()
	lock.Path = abs
	lock.normalize()
	return lock, nil
}

// WriteLockfile serialises the lockfile back to disk, refreshing
// metadata.
func WriteLockfile(lock *Lockfile, path string) error {
	if lock == nil {
		return fmt.Errorf("lockfile: nil lockfile")
	}
	if path == "" {
		if lock.Path == "" {
			return fmt.Errorf("lockfile: missing path")
		}
		path = lock.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("lockfile: resolve %s: %w", path, err)
	}

	if lock.Generated == "" {
		lock.Generated = time.Now().UTC().Format(time.RFC3339)
	}
	lock.Path = abs
	lock.normalize()

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(lock.toDisk()); err != nil {
		return fmt.Errorf("lockfile: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("lockfile: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("lockfile: write %s: %w", abs, err)
	}
	return nil
}

// Dep returns the locked entry for name, if present.
func (l *Lockfile) Dep(name string) (*LockedDep, bool) {
	for _, dep := range l.Deps {
		if dep.Name == name {
			return dep, true
		}
	}
	return nil, false
}

// Put inserts or replaces the locked entry for dep.Name.
func (l *Lockfile) Put(dep *LockedDep) {
	for i, existing := range l.Deps {
		if existing.Name == dep.Name {
			l.Deps[i] = dep
			return
		}
	}
	l.Deps = append(l.Deps, dep)
}

func (l *Lockfile) normalize() {
	if l == nil {
		return
	}
	l.Tool = strings.TrimSpace(l.Tool)
	sort.SliceStable(l.Deps, func(i, j int) bool {
		return l.Deps[i].Name < l.Deps[j].Name
	})
	for _, dep := range l.Deps {
		if dep == nil {
			continue
		}
		dep.Name = strings.TrimSpace(dep.Name)
		dep.Git = strings.TrimSpace(dep.Git)
		dep.Revision = strings.TrimSpace(dep.Revision)
		dep.Checksum = strings.TrimSpace(dep.Checksum)
	}
}

func (l *Lockfile) toDisk() lockfileDisk {
	deps := make([]lockfileDep, 0, len(l.Deps))
	for _, dep := range l.Deps {
		if dep == nil {
			continue
		}
		deps = append(deps, lockfileDep{
			Name:     dep.Name,
			Git:      dep.Git,
			Revision: dep.Revision,
			Checksum: dep.Checksum,
		})
	}
	return lockfileDisk{
		Generated: l.Generated,
		Tool:      l.Tool,
		Deps:      deps,
	}
}

type lockfileDisk struct {
	Generated string        `yaml:"generated"`
	Tool      string        `yaml:"tool"`
	Deps      []lockfileDep `yaml:"deps"`
}

type lockfileDep struct {
	Name     string `yaml:"name"`
	Git      string `yaml:"git"`
	Revision string `yaml:"revision"`
	Checksum string `yaml:"checksum"`
}

func (d lockfileDisk) toLockfile() *Lockfile {
	lock := &Lockfile{
		Generated: strings.TrimSpace(d.Generated),
		Tool:      strings.TrimSpace(d.Tool),
		Deps:      make([]*LockedDep, 0, len(d.Deps)),
	}
	for _, dep := range d.Deps {
		lock.Deps = append(lock.Deps, &LockedDep{
			Name:     strings.TrimSpace(dep.Name),
			Git:      strings.TrimSpace(dep.Git),
			Revision: strings.TrimSpace(dep.Revision),
			Checksum: strings.TrimSpace(dep.Checksum),
		})
	}
	lock.normalize()
	return lock
}
