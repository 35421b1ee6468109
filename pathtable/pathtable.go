// Package pathtable holds the namespace to search-root mapping shared by the
// builder and the resolvers it produces.
package pathtable

import (
	"sort"
	"strings"
)

// Separator delimits namespace segments in a symbolic name.
const Separator = `\`

// Canonical trims leading and trailing separators from a namespace.
// Internal separators are preserved, so `\Foo\Bar\` becomes `Foo\Bar`.
func Canonical(namespace string) string {
	return strings.Trim(namespace, Separator)
}

// Table maps a canonical namespace to its ordered search roots. Earlier
// roots take precedence. Entries are not de-duplicated.
type Table map[string][]string

// Add appends path to the roots of namespace, or puts it first when prepend
// is set. The namespace is used as given; callers canonicalize.
func (t Table) Add(namespace, path string, prepend bool) {
	existing := t[namespace]
	paths := make([]string, 0, len(existing)+1)
	if prepend {
		paths = append(paths, path)
		paths = append(paths, existing...)
	} else {
		paths = append(paths, existing...)
		paths = append(paths, path)
	}
	t[namespace] = paths
}

// Set discards every root registered for namespace and leaves only path.
func (t Table) Set(namespace, path string) {
	t[namespace] = []string{path}
}

// Has reports whether namespace has an entry, even an empty one.
func (t Table) Has(namespace string) bool {
	_, ok := t[namespace]
	return ok
}

// Paths returns a copy of the roots registered for namespace.
func (t Table) Paths(namespace string) []string {
	paths, ok := t[namespace]
	if !ok {
		return nil
	}
	return append([]string(nil), paths...)
}

// Namespaces returns the registered namespaces in sorted order.
func (t Table) Namespaces() []string {
	names := make([]string, 0, len(t))
	for ns := range t {
		names = append(names, ns)
	}
	sort.Strings(names)
	return names
}

// Clone returns a deep copy. A resolver never shares its table with the
// builder that configured it.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for ns, paths := range t {
		out[ns] = append([]string{}, paths...)
	}
	return out
}
