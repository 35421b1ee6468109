// Package script is a host runtime for the resolvers: it executes Go source
// artifacts in embedded yaegi interpreters and keeps track of the symbols
// those artifacts provide.
//
// Artifacts announce what they define through the autoload package the
// runtime exposes to them:
//
//	package main
//
//	import "autoload"
//
//	var _ = autoload.Provide(`Acme\Widget`)
//
// Every artifact runs in its own interpreter, so two artifacts may declare
// the same identifiers. An empty artifact is a valid inclusion and runs as a
// no-op.
package script

import (
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/traefik/yaegi/interp"
	"github.com/traefik/yaegi/stdlib"

	"github.com/kingrea/autoload/manager"
)

// ImportPath is the package path artifacts import to reach the runtime.
const ImportPath = "autoload"

// ErrUndefined is returned by Eval for a name no artifact provided.
var ErrUndefined = errors.New("script: symbol not defined")

// Option customizes a Runtime.
type Option func(*Runtime)

// WithFs reads artifacts from fs instead of the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(r *Runtime) {
		if fs != nil {
			r.fs = fs
		}
	}
}

// WithLogger sets the logger used for execution traces.
func WithLogger(logger *log.Logger) Option {
	return func(r *Runtime) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// Runtime executes artifacts and records provided symbols.
type Runtime struct {
	evalMu sync.Mutex
	fs     afero.Fs
	logger *log.Logger

	mu        sync.Mutex
	defined   map[string]string
	artifacts map[string]*interp.Interpreter
	chain     *manager.Chain
}

// New creates a runtime. Artifacts see the Go standard library and the
// autoload package.
func New(opts ...Option) (*Runtime, error) {
	r := &Runtime{
		fs:        afero.NewOsFs(),
		logger:    log.New(io.Discard),
		defined:   map[string]string{},
		artifacts: map[string]*interp.Interpreter{},
	}
	for _, opt := range opts {
		opt(r)
	}
	// Fail early if the interpreter cannot be set up at all.
	if _, err := r.newInterpreter(""); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Runtime) newInterpreter(path string) (*interp.Interpreter, error) {
	i := interp.New(interp.Options{})
	if err := i.Use(stdlib.Symbols); err != nil {
		return nil, fmt.Errorf("script: load stdlib symbols: %w", err)
	}
	exports := interp.Exports{
		ImportPath + "/" + ImportPath: {
			"Provide": reflect.ValueOf(func(name string) bool { return r.provide(path, name) }),
		},
	}
	if err := i.Use(exports); err != nil {
		return nil, fmt.Errorf("script: export %s: %w", ImportPath, err)
	}
	return i, nil
}

// Require executes the artifact at path in a fresh interpreter.
func (r *Runtime) Require(path string) error {
	code, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return fmt.Errorf("script: read %s: %w", path, err)
	}
	if len(strings.TrimSpace(string(code))) == 0 {
		r.logger.Debug("empty artifact", "path", path)
		return nil
	}
	i, err := r.newInterpreter(path)
	if err != nil {
		return err
	}
	r.evalMu.Lock()
	defer r.evalMu.Unlock()
	r.logger.Debug("executing artifact", "path", path)
	if _, err := i.Eval(string(code)); err != nil {
		return fmt.Errorf("script: interpret %s: %w", path, err)
	}
	r.mu.Lock()
	r.artifacts[path] = i
	r.mu.Unlock()
	return nil
}

// Defined reports whether an executed artifact provided name.
func (r *Runtime) Defined(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.defined[name]
	return ok
}

// Origin returns the artifact that provided name.
func (r *Runtime) Origin(name string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	path, ok := r.defined[name]
	return path, ok
}

// Symbols lists every provided name, sorted.
func (r *Runtime) Symbols() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.defined))
	for name := range r.defined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Chain returns the resolution chain for this runtime. Dispatch stops at
// the first loader after which the name is defined.
func (r *Runtime) Chain() *manager.Chain {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.chain == nil {
		r.chain = manager.NewChain(manager.WithDefined(r.Defined))
	}
	return r.chain
}

// Lookup is the unresolved-symbol hook: when name is not yet defined the
// chain is consulted, then the definition is checked again.
func (r *Runtime) Lookup(name string) (bool, error) {
	if r.Defined(name) {
		return true, nil
	}
	if err := r.Chain().Dispatch(name); err != nil {
		return false, err
	}
	return r.Defined(name), nil
}

// Eval evaluates src in the interpreter of the artifact that provided name.
func (r *Runtime) Eval(name, src string) (reflect.Value, error) {
	r.mu.Lock()
	path, ok := r.defined[name]
	i := r.artifacts[path]
	r.mu.Unlock()
	if !ok || i == nil {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrUndefined, name)
	}
	r.evalMu.Lock()
	defer r.evalMu.Unlock()
	return i.Eval(src)
}

// provide is exported to artifacts as autoload.Provide. It reports whether
// name was newly defined.
func (r *Runtime) provide(path, name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.defined[name]; ok {
		return false
	}
	r.defined[name] = path
	r.logger.Debug("symbol provided", "name", name, "path", path)
	return true
}
