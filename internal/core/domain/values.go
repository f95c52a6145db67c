package domain

import "strings"

// Values is an insertion-ordered map of raw configuration values.
// The zero value is not usable; use NewValues.
type Values struct {
	keys []string
	m    map[string]string
}

// NewValues creates an empty Values.
func NewValues() *Values {
	return &Values{m: make(map[string]string)}
}

// Get returns the raw value stored under key.
func (v *Values) Get(key string) (string, bool) {
	val, ok := v.m[key]
	return val, ok
}

// Has reports whether key is set.
func (v *Values) Has(key string) bool {
	_, ok := v.m[key]
	return ok
}

// Set stores value under key. A new key is placed after all existing keys;
// replacing a key keeps its position.
func (v *Values) Set(key, value string) {
	if _, ok := v.m[key]; !ok {
		v.keys = append(v.keys, key)
	}
	v.m[key] = value
}

// Delete removes key and reports whether it was present.
func (v *Values) Delete(key string) bool {
	if _, ok := v.m[key]; !ok {
		return false
	}
	delete(v.m, key)
	for i, k := range v.keys {
		if k == key {
			v.keys = append(v.keys[:i], v.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (v *Values) Keys() []string {
	out := make([]string, len(v.keys))
	copy(out, v.keys)
	return out
}

// Len returns the number of keys.
func (v *Values) Len() int {
	return len(v.keys)
}

// Clone returns a deep copy.
func (v *Values) Clone() *Values {
	out := &Values{
		keys: make([]string, len(v.keys)),
		m:    make(map[string]string, len(v.m)),
	}
	copy(out.keys, v.keys)
	for k, val := range v.m {
		out.m[k] = val
	}
	return out
}

// Replace makes v an exact copy of other.
func (v *Values) Replace(other *Values) {
	c := other.Clone()
	v.keys, v.m = c.keys, c.m
}

// Map returns the values as a plain map.
func (v *Values) Map() map[string]string {
	out := make(map[string]string, len(v.m))
	for k, val := range v.m {
		out[k] = val
	}
	return out
}

// SplitList splits a comma-separated list, trimming whitespace and
// dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
