// Package manager installs loaders into the host's resolution chain and
// tracks them by an identifier issued at registration.
package manager

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/kingrea/autoload/resolver"
)

var (
	// ErrAlreadyRegistered is returned when the same loader instance is
	// registered twice.
	ErrAlreadyRegistered = errors.New("manager: loader already registered")
	// ErrInvalidIdentifier is returned for identifiers the manager does not
	// know.
	ErrInvalidIdentifier = errors.New("manager: invalid identifier")
)

// ID identifies a registration. It is issued by Register and is not derived
// from the loader's contents, so two identical loaders get distinct IDs.
type ID string

type entry struct {
	loader resolver.Loader
	handle Handle
}

// Manager keeps the set of active loaders. A single mutex covers both its
// identifier maps and its changes to the chain, since they are kept in
// step.
type Manager struct {
	mu      sync.Mutex
	chain   *Chain
	entries map[ID]entry
	byLoad  map[resolver.Loader]ID
}

// New returns a manager that installs loaders into chain.
func New(chain *Chain) *Manager {
	if chain == nil {
		chain = NewChain()
	}
	return &Manager{
		chain:   chain,
		entries: map[ID]entry{},
		byLoad:  map[resolver.Loader]ID{},
	}
}

// Chain returns the chain loaders are installed into.
func (m *Manager) Chain() *Chain {
	return m.chain
}

// Register installs l into the chain, after existing callbacks or before
// them when prepend is set, and returns its identifier. Registering an
// instance that is already active fails with ErrAlreadyRegistered and
// changes nothing.
func (m *Manager) Register(l resolver.Loader, prepend bool) (ID, error) {
	if err := checkIdentity(l); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if id, ok := m.byLoad[l]; ok {
		return "", fmt.Errorf("%w: %T as %s", ErrAlreadyRegistered, l, id)
	}
	id := ID(uuid.NewString())
	var h Handle
	if prepend {
		h = m.chain.Prepend(l.Load)
	} else {
		h = m.chain.Append(l.Load)
	}
	m.entries[id] = entry{loader: l, handle: h}
	m.byLoad[l] = id
	return id, nil
}

// Unregister removes the loader registered as id from the chain.
func (m *Manager) Unregister(id ID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrInvalidIdentifier, string(id))
	}
	delete(m.entries, id)
	delete(m.byLoad, e.loader)
	m.chain.Remove(e.handle)
	return nil
}

// Has reports whether id is currently registered.
func (m *Manager) Has(id ID) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.entries[id]
	return ok
}

// Loader returns the loader registered as id.
func (m *Manager) Loader(id ID) (resolver.Loader, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	return e.loader, ok
}

// IDs returns the active identifiers, sorted.
func (m *Manager) IDs() []ID {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]ID, 0, len(m.entries))
	for id := range m.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Close unregisters every loader this manager installed. Callbacks other
// managers put into the shared chain are left alone.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.entries {
		m.chain.Remove(e.handle)
		delete(m.entries, id)
		delete(m.byLoad, e.loader)
	}
	return nil
}

// checkIdentity rejects loaders that cannot be told apart by instance.
func checkIdentity(l resolver.Loader) error {
	if l == nil {
		return fmt.Errorf("%w: loader is nil", resolver.ErrInvalidLoader)
	}
	if !reflect.TypeOf(l).Comparable() {
		return fmt.Errorf("%w: %T has no stable identity", resolver.ErrInvalidLoader, l)
	}
	return nil
}
