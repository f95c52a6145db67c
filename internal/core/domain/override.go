package domain

import "strings"

// Override document sections, applied in this order.
const (
	OverrideAppend = "append"
	OverrideSet    = "set"
	OverrideDelete = "delete"
)

// OverrideSource is one override file found for a target.
type OverrideSource struct {
	Namespace string
	Path      string
	Document  *Document
}

// OverrideRecord holds the override files found for one target, in requested order.
type OverrideRecord struct {
	Target  string
	Sources []OverrideSource
}

// Namespaces returns the namespaces that had an override file.
func (r OverrideRecord) Namespaces() []string {
	out := make([]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		out = append(out, s.Namespace)
	}
	return out
}

// Applied returns the comma-joined namespaces, as stored in dp.applied_overrides.
func (r OverrideRecord) Applied() string {
	return strings.Join(r.Namespaces(), ",")
}
