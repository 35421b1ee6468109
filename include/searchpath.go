package include

import (
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// SearchPath resolves path fragments the way the host resolves include
// paths: absolute, URL-like and explicitly relative ("./", "../") fragments
// are checked as given, other relative fragments are tried under each root
// in order and finally as given.
type SearchPath struct {
	fs    afero.Fs
	roots []string
}

// NewSearchPath returns a SearchPath over fs with the given include roots.
func NewSearchPath(fs afero.Fs, roots ...string) *SearchPath {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &SearchPath{fs: fs, roots: append([]string(nil), roots...)}
}

// OSSearchPath resolves against the real filesystem.
func OSSearchPath(roots ...string) *SearchPath {
	return NewSearchPath(afero.NewOsFs(), roots...)
}

// Roots returns a copy of the configured include roots.
func (s *SearchPath) Roots() []string {
	return append([]string(nil), s.roots...)
}

// Fs exposes the filesystem lookups run against.
func (s *SearchPath) Fs() afero.Fs {
	return s.fs
}

// Resolve returns the first existing regular file for fragment.
func (s *SearchPath) Resolve(fragment string) (string, bool) {
	if fragment == "" {
		return "", false
	}
	if isURL(fragment) || filepath.IsAbs(fragment) || isExplicitRelative(fragment) {
		if s.isFile(fragment) {
			return fragment, true
		}
		return "", false
	}
	for _, root := range s.roots {
		if strings.TrimSpace(root) == "" {
			continue
		}
		candidate := filepath.Join(root, fragment)
		if s.isFile(candidate) {
			return candidate, true
		}
	}
	if s.isFile(fragment) {
		return fragment, true
	}
	return "", false
}

func (s *SearchPath) isFile(path string) bool {
	info, err := s.fs.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular()
}

func isURL(fragment string) bool {
	idx := strings.Index(fragment, "://")
	return idx > 0
}

// isExplicitRelative reports whether fragment is anchored at the working
// directory.
func isExplicitRelative(fragment string) bool {
	for _, prefix := range []string{".", ".."} {
		if fragment == prefix ||
			strings.HasPrefix(fragment, prefix+"/") ||
			strings.HasPrefix(fragment, prefix+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
