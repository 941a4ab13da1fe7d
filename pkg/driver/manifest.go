package driver

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultManifestName is the project manifest file name.
const DefaultManifestName = "rhai.yml"

// Manifest models rhai.yml: the project name, extra directories import
// paths are resolved under, and git dependencies fetched into the
// local dep cache.
type Manifest struct {
	Path    string
	Name    string
	Imports []string
	Deps    []*ManifestDep
}

// ManifestDep is one declared git dependency. Tag and Rev are
// alternatives; Tag wins when both are set.
type ManifestDep struct {
	Name string
	Git  string
	Tag  string
	Rev  string
}

// LoadManifest parses rhai.yml from disk.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var raw manifestDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("manifest: parse %s: %w", abs, err)
	}

	m := raw.toManifest()
	m.Path = abs
	if err := m.validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// WriteManifest serialises the manifest to disk.
func WriteManifest(m *Manifest, path string) error {
	if m == nil {
		return fmt.Errorf("manifest: nil manifest")
	}
	if path == "" {
		if m.Path == "" {
			return fmt.Errorf("manifest: missing path")
		}
		path = m.Path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	m.Path = abs
	m.normalize()
	if err := m.validate(); err != nil {
		return err
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m.toDisk()); err != nil {
		return fmt.Errorf("manifest: marshal %s: %w", abs, err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("manifest: encoder close: %w", err)
	}
	if err := os.WriteFile(abs, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("manifest: write %s: %w", abs, err)
	}
	return nil
}

// Dir returns the directory the manifest lives in, the root relative
// import directories are resolved against.
func (m *Manifest) Dir() string {
	return filepath.Dir(m.Path)
}

// ImportRoots returns the manifest's import directories resolved
// against the manifest location.
func (m *Manifest) ImportRoots() []string {
	roots := make([]string, 0, len(m.Imports))
	for _, dir := range m.Imports {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(m.Dir(), dir)
		}
		roots = append(roots, dir)
	}
	return roots
}

func (m *Manifest) normalize() {
	m.Name = strings.TrimSpace(m.Name)
	for i := range m.Imports {
		m.Imports[i] = strings.TrimSpace(m.Imports[i])
	}
	sort.SliceStable(m.Deps, func(i, j int) bool {
		return m.Deps[i].Name < m.Deps[j].Name
	})
	for _, dep := range m.Deps {
		dep.Name = strings.TrimSpace(dep.Name)
		dep.Git = strings.TrimSpace(dep.Git)
		dep.Tag = strings.TrimSpace(dep.Tag)
		dep.Rev = strings.TrimSpace(dep.Rev)
	}
}

func (m *Manifest) validate() error {
	seen := make(map[string]bool, len(m.Deps))
	for _, dep := range m.Deps {
		if dep.Name == "" {
			return fmt.Errorf("manifest: dependency without a name")
		}
		if dep.Git == "" {
			return fmt.Errorf("manifest: dependency %s has no git url", dep.Name)
		}
		if seen[dep.Name] {
			return fmt.Errorf("manifest: duplicate dependency %s", dep.Name)
		}
		seen[dep.Name] = true
	}
	return nil
}

type manifestDisk struct {
	Name    string            `yaml:"name"`
	Imports []string          `yaml:"imports,omitempty"`
	Deps    []manifestDiskDep `yaml:"deps,omitempty"`
}

type manifestDiskDep struct {
	Name string `yaml:"name"`
	Git  string `yaml:"git"`
	Tag  string `yaml:"tag,omitempty"`
	Rev  string `yaml:"rev,omitempty"`
}

func (d manifestDisk) toManifest() *Manifest {
	m := &Manifest{
		Name:    strings.TrimSpace(d.Name),
		Imports: make([]string, 0, len(d.Imports)),
		Deps:    make([]*ManifestDep, 0, len(d.Deps)),
	}
	for _, dir := range d.Imports {
		m.Imports = append(m.Imports, strings.TrimSpace(dir))
	}
	for _, dep := range d.Deps {
		m.Deps = append(m.Deps, &ManifestDep{
			Name: strings.TrimSpace(dep.Name),
			Git:  strings.TrimSpace(dep.Git),
			Tag:  strings.TrimSpace(dep.Tag),
			Rev:  strings.TrimSpace(dep.Rev),
		})
	}
	m.normalize()
	return m
}

func (m *Manifest) toDisk() manifestDisk {
	deps := make([]manifestDiskDep, 0, len(m.Deps))
	for _, dep := range m.Deps {
		deps = append(deps, manifestDiskDep{
			Name: dep.Name,
			Git:  dep.Git,
			Tag:  dep.Tag,
			Rev:  dep.Rev,
		})
	}
	return manifestDisk{
		Name:    m.Name,
		Imports: m.Imports,
		Deps:    deps,
	}
}
