// internal/config/config.go
//
// This package reads namespace map files. A project keeps its map in
// .autoload/config.yaml (or .toml / .hcl); the CLI can also be pointed at an
// explicit file.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/hashicorp/hcl/v2/hclsimple"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/kingrea/autoload/container"
	"github.com/kingrea/autoload/resolver"
)

const (
	// Dir is the per-project directory holding the namespace map.
	Dir = ".autoload"

	defaultConfigName = "config.yaml"
)

const defaultConfigYAML = `# autoload namespace map
version: 1

# Suffix appended to the leaf of a symbolic name.
extension: .go

# Roots tried for relative paths, in order, before the path itself.
include_path: []

# Namespace to search-root mappings. Earlier paths win. Relative paths are
# resolved against the directory holding this file. Keep the trailing slash:
# the leaf is appended to the path verbatim.
namespaces:
  - namespace: ""
    paths:
      - ../src/
`

// Namespace is one namespace entry of a map file.
type Namespace struct {
	Namespace string   `yaml:"namespace" toml:"namespace"`
	Paths     []string `yaml:"paths" toml:"paths"`
	Prepend   bool     `yaml:"prepend,omitempty" toml:"prepend,omitempty"`
}

// File models a namespace map file.
type File struct {
	Version     int         `yaml:"version" toml:"version"`
	Extension   string      `yaml:"extension,omitempty" toml:"extension,omitempty"`
	IncludePath []string    `yaml:"include_path,omitempty" toml:"include_path,omitempty"`
	Namespaces  []Namespace `yaml:"namespaces" toml:"namespaces"`

	// Path is the file the map was read from.
	Path string `yaml:"-" toml:"-"`
}

type hclFile struct {
	Version     int            `hcl:"version,optional"`
	Extension   string         `hcl:"extension,optional"`
	IncludePath []string       `hcl:"include_path,optional"`
	Namespaces  []hclNamespace `hcl:"namespace,block"`
}

type hclNamespace struct {
	Name    string   `hcl:"name,label"`
	Paths   []string `hcl:"paths"`
	Prepend bool     `hcl:"prepend,optional"`
}

// Load reads a map file, choosing the decoder by extension.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("config: %s is empty", path)
	}
	parsed, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("config: resolve %s: %w", path, err)
	}
	parsed.Path = abs
	parsed.normalize(filepath.Dir(abs))
	return parsed, nil
}

// Decode parses data as the format implied by name's extension. Relative
// paths are left as written.
func Decode(name string, data []byte) (*File, error) {
	var parsed File
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", name, err)
		}
	case ".toml":
		if err := toml.Unmarshal(data, &parsed); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", name, err)
		}
	case ".hcl":
		var raw hclFile
		if err := hclsimple.Decode(filepath.Base(name), data, nil, &raw); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", name, err)
		}
		parsed = raw.toFile()
	default:
		return nil, fmt.Errorf("config: unsupported format %q", filepath.Ext(name))
	}
	parsed.applyDefaults()
	if err := parsed.validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", name, err)
	}
	return &parsed, nil
}

// Find returns the map file in projectDir/.autoload, trying YAML, TOML and
// HCL in that order.
func Find(projectDir string) (string, error) {
	dir := filepath.Join(projectDir, Dir)
	for _, name := range []string{"config.yaml", "config.yml", "config.toml", "config.hcl"} {
		candidate := filepath.Join(dir, name)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config: stat %s: %w", candidate, err)
		}
	}
	return "", fmt.Errorf("config: no namespace map in %s", dir)
}

// Init creates projectDir/.autoload with a default YAML map unless a map
// already exists. It returns the map's path.
func Init(projectDir string) (string, error) {
	if existing, err := Find(projectDir); err == nil {
		return existing, nil
	}
	dir := filepath.Join(projectDir, Dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("config: ensure %s: %w", dir, err)
	}
	path := filepath.Join(dir, defaultConfigName)
	if err := os.WriteFile(path, []byte(defaultConfigYAML), 0o644); err != nil {
		return "", fmt.Errorf("config: write %s: %w", path, err)
	}
	return path, nil
}

// Entries flattens the map into container entries. Applied in order they
// reproduce the listed path order; a prepended namespace lands as a group
// ahead of earlier entries, so its paths are emitted in reverse.
func (f *File) Entries() []container.Entry {
	var entries []container.Entry
	for _, ns := range f.Namespaces {
		for i := range ns.Paths {
			p := ns.Paths[i]
			if ns.Prepend {
				p = ns.Paths[len(ns.Paths)-1-i]
			}
			entries = append(entries, container.Entry{Namespace: ns.Namespace, Path: p, Prepend: ns.Prepend})
		}
	}
	return entries
}

func (h hclFile) toFile() File {
	out := File{
		Version:     h.Version,
		Extension:   h.Extension,
		IncludePath: h.IncludePath,
	}
	for _, ns := range h.Namespaces {
		out.Namespaces = append(out.Namespaces, Namespace{Namespace: ns.Name, Paths: ns.Paths, Prepend: ns.Prepend})
	}
	return out
}

func (f *File) applyDefaults() {
	if f.Version == 0 {
		f.Version = 1
	}
	if strings.TrimSpace(f.Extension) == "" {
		f.Extension = resolver.DefaultExtension
	}
}

func (f *File) validate() error {
	if f.Version != 1 {
		return fmt.Errorf("unsupported version %d", f.Version)
	}
	if !strings.HasPrefix(f.Extension, ".") {
		return fmt.Errorf("extension %q must start with a dot", f.Extension)
	}
	for i, ns := range f.Namespaces {
		if len(ns.Paths) == 0 {
			return fmt.Errorf("namespaces[%d] (%q): at least one path is required", i, ns.Namespace)
		}
	}
	return nil
}

func (f *File) normalize(base string) {
	for i := range f.IncludePath {
		f.IncludePath[i] = resolvePath(base, f.IncludePath[i])
	}
	for i := range f.Namespaces {
		for j := range f.Namespaces[i].Paths {
			f.Namespaces[i].Paths[j] = resolvePath(base, f.Namespaces[i].Paths[j])
		}
	}
}

// resolvePath anchors relative paths at base. A trailing separator is kept
// because resolvers append leaves to paths without joining.
func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" || filepath.IsAbs(trimmed) || strings.Contains(trimmed, "://") {
		return trimmed
	}
	resolved := filepath.Join(base, trimmed)
	if strings.HasSuffix(trimmed, "/") || strings.HasSuffix(trimmed, string(filepath.Separator)) {
		resolved += string(filepath.Separator)
	}
	return resolved
}
