package domain

import "go.trai.ch/zerr"

// Layered is a two-level view over a section: keys missing from Own fall back to Global.
type Layered struct {
	Own    *Values
	Global *Values
}

// Get returns the raw value for key, preferring the section's own value.
func (l Layered) Get(key string) (string, bool) {
	if l.Own != nil {
		if v, ok := l.Own.Get(key); ok {
			return v, true
		}
	}
	if l.Global != nil {
		return l.Global.Get(key)
	}
	return "", false
}

// Keys returns the global keys followed by the section's own keys that
// the global section does not define.
func (l Layered) Keys() []string {
	var keys []string
	seen := make(map[string]struct{})
	for _, src := range []*Values{l.Global, l.Own} {
		if src == nil {
			continue
		}
		for _, k := range src.Keys() {
			if _, ok := seen[k]; ok {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
	}
	return keys
}

// Document is an ordered set of named sections plus the global section.
type Document struct {
	global   *Values
	order    []string
	sections map[string]*Values
}

// NewDocument creates an empty Document.
func NewDocument() *Document {
	return &Document{
		global:   NewValues(),
		sections: make(map[string]*Values),
	}
}

// Global returns the global section.
func (d *Document) Global() *Values {
	return d.global
}

// AddSection appends a new, empty section.
func (d *Document) AddSection(name string) (*Values, error) {
	if name == GlobalSection || d.HasSection(name) {
		return nil, zerr.With(zerr.Wrap(ErrDuplicateSection, "section already exists"), "section", name)
	}
	v := NewValues()
	d.order = append(d.order, name)
	d.sections[name] = v
	return v, nil
}

// Section returns the values of the named section. GlobalSection returns the global values.
func (d *Document) Section(name string) (*Values, bool) {
	if name == GlobalSection {
		return d.global, true
	}
	v, ok := d.sections[name]
	return v, ok
}

// HasSection reports whether a non-global section exists.
func (d *Document) HasSection(name string) bool {
	_, ok := d.sections[name]
	return ok
}

// Targets returns the non-global section names in insertion order.
func (d *Document) Targets() []string {
	out := make([]string, len(d.order))
	copy(out, d.order)
	return out
}

// Layered returns the layered view of the named section.
func (d *Document) Layered(name string) (Layered, bool) {
	if name == GlobalSection {
		return Layered{Global: d.global}, true
	}
	v, ok := d.sections[name]
	if !ok {
		return Layered{}, false
	}
	return Layered{Own: v, Global: d.global}, true
}

// Raw returns the uninterpolated value of key in section, falling back to the global section.
func (d *Document) Raw(section, key string) (string, bool) {
	l, ok := d.Layered(section)
	if !ok {
		return "", false
	}
	return l.Get(key)
}

// Get returns the interpolated value of key in section.
func (d *Document) Get(section, key string) (string, error) {
	raw, ok := d.Raw(section, key)
	if !ok {
		return "", zerr.With(zerr.With(zerr.Wrap(ErrMissingKey, "key not found"),
			"section", section), "key", key)
	}
	return d.interpolate(section, key, raw, 1)
}

// Resolve returns every key visible from section with all references expanded.
func (d *Document) Resolve(section string) (*Values, error) {
	l, ok := d.Layered(section)
	if !ok {
		return nil, zerr.With(zerr.Wrap(ErrMissingSection, "section not found"), "section", section)
	}
	out := NewValues()
	for _, k := range l.Keys() {
		v, err := d.Get(section, k)
		if err != nil {
			return nil, err
		}
		out.Set(k, v)
	}
	return out, nil
}

// Clone returns a deep copy.
func (d *Document) Clone() *Document {
	out := &Document{
		global:   d.global.Clone(),
		order:    make([]string, len(d.order)),
		sections: make(map[string]*Values, len(d.sections)),
	}
	copy(out.order, d.order)
	for name, v := range d.sections {
		out.sections[name] = v.Clone()
	}
	return out
}
