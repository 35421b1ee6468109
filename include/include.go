// Package include wraps the host runtime primitives the resolvers depend on:
// executing a source artifact and resolving a path fragment against the
// host's include roots.
package include

import (
	"sync"
)

// Requirer executes the source artifact at path. Errors describe malformed
// or failing artifacts and are passed through callers unmodified.
type Requirer interface {
	Require(path string) error
}

// RequireFunc adapts a plain function to Requirer.
type RequireFunc func(path string) error

// Require calls f(path).
func (f RequireFunc) Require(path string) error {
	return f(path)
}

// Once returns a Requirer that executes each distinct path at most once.
// A path whose execution failed is not remembered and may be retried.
func Once(next Requirer) Requirer {
	return &onceRequirer{next: next, done: map[string]struct{}{}}
}

type onceRequirer struct {
	next Requirer
	mu   sync.Mutex
	done map[string]struct{}
}

func (o *onceRequirer) Require(path string) error {
	o.mu.Lock()
	_, seen := o.done[path]
	o.mu.Unlock()
	if seen {
		return nil
	}
	if err := o.next.Require(path); err != nil {
		return err
	}
	o.mu.Lock()
	o.done[path] = struct{}{}
	o.mu.Unlock()
	return nil
}
