// Package builder accumulates namespace registrations and materializes them
// into configured resolvers.
package builder

import (
	"fmt"

	"github.com/kingrea/autoload/include"
	"github.com/kingrea/autoload/pathtable"
	"github.com/kingrea/autoload/resolver"
)

// Factory constructs a new, unconfigured product. The value it returns must
// implement resolver.Product.
type Factory func() any

// Option customizes a Builder.
type Option func(*Builder)

// WithResolverOptions passes options to the default Psr4 product.
func WithResolverOptions(opts ...resolver.Option) Option {
	return func(b *Builder) {
		b.resolverOpts = append(b.resolverOpts, opts...)
	}
}

// WithNamespaceCanonicalizer replaces pathtable.Canonical.
func WithNamespaceCanonicalizer(fn func(string) string) Option {
	return func(b *Builder) {
		if fn != nil {
			b.canonicalNamespace = fn
		}
	}
}

// WithPathCanonicalizer sets how paths are normalized before they are
// stored. Paths are kept verbatim by default so a bare namespace can rely
// on the include path alone.
func WithPathCanonicalizer(fn func(string) string) Option {
	return func(b *Builder) {
		if fn != nil {
			b.canonicalPath = fn
		}
	}
}

// Builder collects namespace to path registrations. It can be reused: every
// Build call seeds a fresh product from the same table.
type Builder struct {
	table              pathtable.Table
	factory            Factory
	requirer           include.Requirer
	resolverOpts       []resolver.Option
	canonicalNamespace func(string) string
	canonicalPath      func(string) string
}

// New returns a builder whose product is a Psr4 resolver executing files
// with req.
func New(req include.Requirer, opts ...Option) *Builder {
	b := &Builder{
		table:              pathtable.Table{},
		requirer:           req,
		canonicalNamespace: pathtable.Canonical,
		canonicalPath:      func(path string) string { return path },
	}
	for _, opt := range opts {
		opt(b)
	}
	b.factory = b.defaultProduct
	return b
}

func (b *Builder) defaultProduct() any {
	return resolver.NewPsr4(b.requirer, b.resolverOpts...)
}

// Add appends path to namespace, or prepends it when prepend is set.
func (b *Builder) Add(namespace, path string, prepend bool) *Builder {
	b.table.Add(b.canonicalNamespace(namespace), b.canonicalPath(path), prepend)
	return b
}

// Set replaces every path registered for namespace with path.
func (b *Builder) Set(namespace, path string) *Builder {
	b.table.Set(b.canonicalNamespace(namespace), b.canonicalPath(path))
	return b
}

// SetProduct selects the product Build creates. The factory is probed once;
// if its value cannot load and be configured the builder is left unchanged
// and ErrInvalidLoader is returned.
func (b *Builder) SetProduct(factory Factory) error {
	if factory == nil {
		return fmt.Errorf("%w: product factory is nil", resolver.ErrInvalidLoader)
	}
	if _, err := asProduct(factory()); err != nil {
		return err
	}
	b.factory = factory
	return nil
}

// Build creates a product and configures it with a copy of the table.
func (b *Builder) Build() (resolver.Product, error) {
	product, err := asProduct(b.factory())
	if err != nil {
		return nil, err
	}
	product.Configure(b.table.Clone())
	return product, nil
}

// Table returns a copy of the accumulated table.
func (b *Builder) Table() pathtable.Table {
	return b.table.Clone()
}

// Clone returns an independent builder with the same product and a copy of
// the table.
func (b *Builder) Clone() *Builder {
	clone := *b
	clone.table = b.table.Clone()
	return &clone
}

func asProduct(v any) (resolver.Product, error) {
	if v == nil {
		return nil, fmt.Errorf("%w: factory returned nil", resolver.ErrInvalidLoader)
	}
	product, ok := v.(resolver.Product)
	if !ok {
		return nil, fmt.Errorf("%w: %T does not implement Load and Configure", resolver.ErrInvalidLoader, v)
	}
	return product, nil
}
