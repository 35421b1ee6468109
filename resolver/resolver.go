// Package resolver maps symbolic names such as `Acme\Widget\Nuke` to source
// artifacts and executes them through the host runtime.
//
// A resolver answers one question per name: which file, if any, defines it.
// Names it cannot place are not errors; several resolvers are usually
// chained and a later one may succeed where an earlier one found nothing.
package resolver

import (
	"errors"
	"strings"

	"github.com/kingrea/autoload/pathtable"
)

// ErrInvalidLoader reports a value that lacks the load capability a
// builder or manager requires.
var ErrInvalidLoader = errors.New("resolver: invalid loader")

// ErrNoRequirer is returned by Load when a resolver found a file but has no
// host primitive to execute it with.
var ErrNoRequirer = errors.New("resolver: no requirer configured")

// Loader attempts to load the artifact defining name. An unresolved name is
// a silent no-op; a returned error comes from executing the artifact.
type Loader interface {
	Load(name string) error
}

// Configurable accepts its namespace table once, at build time.
type Configurable interface {
	Configure(table pathtable.Table)
}

// Product is what a builder produces: a loader that takes its table through
// Configure.
type Product interface {
	Loader
	Configurable
}

// SplitName splits name on its last namespace separator into prefix and
// leaf. A name without a separator has an empty prefix.
func SplitName(name string) (prefix, leaf string) {
	idx := strings.LastIndex(name, pathtable.Separator)
	if idx < 0 {
		return "", name
	}
	return name[:idx], name[idx+len(pathtable.Separator):]
}
