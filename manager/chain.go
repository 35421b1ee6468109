package manager

import "sync"

// Callback is invoked with a name the host could not resolve.
type Callback func(name string) error

// Handle identifies a callback installed in a Chain.
type Handle uint64

// ChainOption customizes a Chain.
type ChainOption func(*Chain)

// WithDefined sets the predicate Dispatch consults after each callback.
// Without one, every callback runs for every name.
func WithDefined(defined func(name string) bool) ChainOption {
	return func(c *Chain) {
		c.defined = defined
	}
}

type link struct {
	handle Handle
	fn     Callback
}

// Chain is the ordered list of load callbacks the host consults whenever a
// symbol is unresolved. The host creates one and hands it to every Manager
// that should install loaders into it.
type Chain struct {
	mu      sync.Mutex
	links   []link
	next    Handle
	defined func(string) bool
}

// NewChain returns an empty chain.
func NewChain(opts ...ChainOption) *Chain {
	c := &Chain{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Append installs fn after every existing callback.
func (c *Chain) Append(fn Callback) Handle {
	return c.insert(fn, false)
}

// Prepend installs fn before every existing callback.
func (c *Chain) Prepend(fn Callback) Handle {
	return c.insert(fn, true)
}

func (c *Chain) insert(fn Callback, prepend bool) Handle {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	l := link{handle: c.next, fn: fn}
	if prepend {
		c.links = append([]link{l}, c.links...)
	} else {
		c.links = append(c.links, l)
	}
	return l.handle
}

// Remove uninstalls the callback identified by h.
func (c *Chain) Remove(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, l := range c.links {
		if l.handle == h {
			c.links = append(c.links[:i:i], c.links[i+1:]...)
			return true
		}
	}
	return false
}

// Len reports the number of installed callbacks.
func (c *Chain) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.links)
}

// Clear drops every callback.
func (c *Chain) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.links = nil
}

// Dispatch runs the callbacks in order until the defined predicate reports
// name as satisfied. The first callback error stops dispatch and is
// returned unmodified.
//
// Dispatch iterates a snapshot: callbacks added or removed while it runs,
// including from inside a callback, take effect on the next dispatch.
func (c *Chain) Dispatch(name string) error {
	c.mu.Lock()
	links := append([]link(nil), c.links...)
	defined := c.defined
	c.mu.Unlock()
	for _, l := range links {
		if err := l.fn(name); err != nil {
			return err
		}
		if defined != nil && defined(name) {
			return nil
		}
	}
	return nil
}
