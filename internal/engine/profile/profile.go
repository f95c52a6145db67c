// Package profile flattens user-selected profiles into one set of values.
package profile

import (
	"strings"

	"go.trai.ch/devpipe/internal/core/domain"
	"go.trai.ch/zerr"
)

// Handler accumulates the values of the selected profiles.
type Handler interface {
	// Add records one key/value pair from a profile section.
	Add(key, value string)
	// Values returns everything accumulated so far.
	Values() *domain.Values
}

// Appender is the default Handler: a key seen again is appended with a single space.
// Accumulated values never start or end with whitespace.
type Appender struct {
	values *domain.Values
}

// NewAppender creates an empty Appender.
func NewAppender() *Appender {
	return &Appender{values: domain.NewValues()}
}

// Add appends value to any earlier value of key.
func (a *Appender) Add(key, value string) {
	if prev, ok := a.values.Get(key); ok {
		a.values.Set(key, strings.TrimSpace(prev+" "+value))
		return
	}
	a.values.Set(key, value)
}

// Values returns the accumulated values.
func (a *Appender) Values() *domain.Values {
	return a.values
}

// Resolver selects profile sections and merges them through a Handler.
type Resolver struct {
	newHandler func() Handler
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithHandler replaces the default Appender. factory is called once per Resolve.
func WithHandler(factory func() Handler) Option {
	return func(r *Resolver) {
		r.newHandler = factory
	}
}

// NewResolver creates a Resolver that appends repeated keys.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		newHandler: func() Handler { return NewAppender() },
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve flattens the comma-separated profile names found in doc.
// With no names the global values of doc are returned as they are.
// Each name must match a section of doc; only the section's own keys are used.
func (r *Resolver) Resolve(names string, doc *domain.Document) (*domain.Values, error) {
	selected := domain.SplitList(names)
	if len(selected) == 0 {
		return doc.Global().Clone(), nil
	}

	for _, name := range selected {
		if !doc.HasSection(name) {
			return nil, zerr.With(zerr.Wrap(domain.ErrUnknownProfile, "unknown profile "+name), "profile", name)
		}
	}

	h := r.newHandler()
	for _, name := range selected {
		section, _ := doc.Section(name)
		for _, key := range section.Keys() {
			value, _ := section.Get(key)
			h.Add(key, value)
		}
	}
	return h.Values(), nil
}
