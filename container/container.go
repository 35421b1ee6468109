// Package container bundles a builder and a manager for callers that want a
// working loader from a short list of namespace mappings.
package container

import (
	"fmt"

	"github.com/kingrea/autoload/builder"
	"github.com/kingrea/autoload/include"
	"github.com/kingrea/autoload/manager"
	"github.com/kingrea/autoload/resolver"
)

// Entry maps one namespace to one search root.
type Entry struct {
	Namespace string
	Path      string
	Prepend   bool
}

// Container holds the builder template and the manager loaders go to.
type Container struct {
	builder *builder.Builder
	manager *manager.Manager
}

// New wraps b and m.
func New(b *builder.Builder, m *manager.Manager) *Container {
	return &Container{builder: b, manager: m}
}

// Bootstrap returns a container with a Psr4 builder executing files through
// req and a manager installing into chain.
func Bootstrap(chain *manager.Chain, req include.Requirer, opts ...builder.Option) *Container {
	return New(builder.New(req, opts...), manager.New(chain))
}

// Builder returns a copy of the template builder; changes to it do not
// affect later calls.
func (c *Container) Builder() *builder.Builder {
	return c.builder.Clone()
}

// SetBuilder replaces the template builder.
func (c *Container) SetBuilder(b *builder.Builder) *Container {
	c.builder = b
	return c
}

// Manager returns the manager.
func (c *Container) Manager() *manager.Manager {
	return c.manager
}

// SetManager replaces the manager.
func (c *Container) SetManager(m *manager.Manager) *Container {
	c.manager = m
	return c
}

// Register appends l to the chain.
func (c *Container) Register(l resolver.Loader) (manager.ID, error) {
	return c.manager.Register(l, false)
}

// Setup builds a loader from entries on top of the template and registers
// it.
func (c *Container) Setup(entries []Entry) (manager.ID, error) {
	b := c.Builder()
	for _, e := range entries {
		b.Add(e.Namespace, e.Path, e.Prepend)
	}
	product, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("container: build loader: %w", err)
	}
	return c.Register(product)
}
