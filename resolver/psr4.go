package resolver

import (
	"path/filepath"

	"github.com/kingrea/autoload/include"
	"github.com/kingrea/autoload/pathtable"
)

// DefaultExtension is appended to a leaf to form a file name. The bundled
// host runtime executes Go source.
const DefaultExtension = ".go"

// Option customizes a Psr4 resolver.
type Option func(*Psr4)

// WithSearchPath sets the include-path resolution used for candidates.
func WithSearchPath(sp *include.SearchPath) Option {
	return func(r *Psr4) {
		if sp != nil {
			r.search = sp
		}
	}
}

// WithExtension overrides DefaultExtension.
func WithExtension(ext string) Option {
	return func(r *Psr4) {
		r.ext = ext
	}
}

// Probe records one candidate examined during resolution.
type Probe struct {
	Namespace string
	Root      string
	Candidate string
	File      string
	Found     bool
}

// Psr4 resolves names with a PSR-4 style mapping. The roots registered for
// a namespace are searched first; when none of them holds the file, the
// last namespace segment moves onto the leaf as a directory and the parent
// namespace is searched, down to the empty namespace.
type Psr4 struct {
	table   pathtable.Table
	search  *include.SearchPath
	require include.Requirer
	ext     string
}

// NewPsr4 returns an unconfigured resolver that executes files with req.
func NewPsr4(req include.Requirer, opts ...Option) *Psr4 {
	r := &Psr4{
		table:   pathtable.Table{},
		search:  include.OSSearchPath(),
		require: req,
		ext:     DefaultExtension,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Configure installs a private copy of table.
func (r *Psr4) Configure(table pathtable.Table) {
	r.table = table.Clone()
}

// Table returns a copy of the configured table.
func (r *Psr4) Table() pathtable.Table {
	return r.table.Clone()
}

// Extension reports the suffix appended to leaves.
func (r *Psr4) Extension() string {
	return r.ext
}

// Load executes the file defining name, if one is found.
func (r *Psr4) Load(name string) error {
	file, ok := r.Resolve(name)
	if !ok {
		return nil
	}
	if r.require == nil {
		return ErrNoRequirer
	}
	return r.require.Require(file)
}

// Resolve returns the file that defines name.
func (r *Psr4) Resolve(name string) (string, bool) {
	prefix, leaf := SplitName(name)
	return r.searchName(prefix, leaf, nil)
}

// Trace resolves name and returns every candidate examined, in order.
func (r *Psr4) Trace(name string) []Probe {
	var probes []Probe
	prefix, leaf := SplitName(name)
	r.searchName(prefix, leaf, func(p Probe) {
		probes = append(probes, p)
	})
	return probes
}

func (r *Psr4) searchName(prefix, leaf string, visit func(Probe)) (string, bool) {
	for {
		for _, root := range r.table[prefix] {
			candidate := root + leaf + r.ext
			file, ok := r.search.Resolve(candidate)
			if visit != nil {
				visit(Probe{Namespace: prefix, Root: root, Candidate: candidate, File: file, Found: ok})
			}
			if ok {
				return file, true
			}
		}
		if prefix == "" {
			return "", false
		}
		parent, segment := SplitName(prefix)
		// Promoted segments join as directories, not namespace separators.
		leaf = segment + string(filepath.Separator) + leaf
		prefix = parent
	}
}
