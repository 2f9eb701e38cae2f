// Package catalog keeps the named diagrams a project documents.
//
// A [Catalog] maps diagram names to build functions. Building is deferred until
// a caller supplies the [diagram.Style], so the same catalog renders with the
// house style, a config-file style, or a test style.
//
//	cat := catalog.TaskAgent()
//	d, err := cat.Build("architecture-main", diagram.DefaultStyle())
//
// Entries keep insertion order; [Catalog.List] returns them in that order.
package catalog

import (
	"fmt"
	"sync"

	"github.com/matzehuels/archdiagram/pkg/diagram"
	"github.com/matzehuels/archdiagram/pkg/errors"
)

// BuildFunc composes a diagram using the given style.
type BuildFunc func(style diagram.Style) (*diagram.Diagram, error)

// Entry is a named diagram definition.
type Entry struct {
	Name        string
	Title       string
	Description string
	Build       BuildFunc
}

// Catalog is a set of named diagram definitions. It is safe for concurrent use.
type Catalog struct {
	mu      sync.RWMutex
	entries map[string]Entry
	order   []string
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{entries: make(map[string]Entry)}
}

// Add registers e. Names must be valid file base names and unique.
func (c *Catalog) Add(e Entry) error {
	if err := errors.ValidateDiagramName(e.Name); err != nil {
		return err
	}
	if e.Build == nil {
		return errors.New(errors.ErrCodeInvalidInput, "diagram %q has no build function", e.Name)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[e.Name]; ok {
		return errors.New(errors.ErrCodeInvalidInput, "diagram %q already registered", e.Name)
	}
	c.entries[e.Name] = e
	c.order = append(c.order, e.Name)
	return nil
}

// Get returns the entry registered under name.
func (c *Catalog) Get(name string) (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[name]
	return e, ok
}

// List returns all entries in registration order.
func (c *Catalog) List() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Entry, len(c.order))
	for i, name := range c.order {
		out[i] = c.entries[name]
	}
	return out
}

// Names returns the registered names in registration order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]string(nil), c.order...)
}

// Len returns the number of registered diagrams.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.order)
}

// Build composes the diagram registered under name.
func (c *Catalog) Build(name string, style diagram.Style) (*diagram.Diagram, error) {
	e, ok := c.Get(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "unknown diagram %q", name)
	}
	d, err := e.Build(style)
	if err != nil {
		return nil, fmt.Errorf("build %s: %w", name, err)
	}
	return d, nil
}

// Merge adds every entry of other to c, failing on the first name clash.
func (c *Catalog) Merge(other *Catalog) error {
	for _, e := range other.List() {
		if err := c.Add(e); err != nil {
			return err
		}
	}
	return nil
}
