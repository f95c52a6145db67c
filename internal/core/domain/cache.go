package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// CacheRecord is the reserved record kept in the global section of a build cache.
// It holds everything needed to rebuild the cache.
type CacheRecord struct {
	BuildConfig string
	BuildRoot   string
	SrcRoot     string
	Overrides   []string
	ProfileName string
	Version     Stamp
}

// Encode writes the record into the global section in a fixed order.
func (r CacheRecord) Encode(v *Values) {
	v.Set(KeyBuildConfig, r.BuildConfig)
	v.Set(KeyBuildRoot, r.BuildRoot)
	v.Set(KeySrcRoot, r.SrcRoot)
	v.Set(KeyOverrides, strings.Join(r.Overrides, ","))
	v.Set(KeyProfileName, r.ProfileName)
	v.Set(KeyVersion, r.Version.String())
}

// DecodeCacheRecord reads the reserved record from a cache document.
// A malformed version decodes as 0 so that any release forces a rebuild.
func DecodeCacheRecord(doc *Document) (CacheRecord, error) {
	g := doc.Global()
	var missing []string
	get := func(key string) string {
		v, ok := g.Get(key)
		if !ok {
			missing = append(missing, key)
		}
		return v
	}

	rec := CacheRecord{
		BuildConfig: get(KeyBuildConfig),
		BuildRoot:   get(KeyBuildRoot),
		SrcRoot:     get(KeySrcRoot),
		Overrides:   SplitList(get(KeyOverrides)),
		ProfileName: get(KeyProfileName),
	}
	if len(missing) > 0 {
		return CacheRecord{}, zerr.With(zerr.Wrap(ErrConfiguration, "build cache is missing reserved keys"),
			"keys", strings.Join(missing, ","))
	}

	if raw, ok := g.Get(KeyVersion); ok {
		if stamp, err := ParseStamp(raw); err == nil {
			rec.Version = stamp
		}
	}
	return rec, nil
}

// AppliedOverrides returns the namespaces recorded on target by the last build.
func AppliedOverrides(doc *Document, target string) []string {
	v, ok := doc.Section(target)
	if !ok {
		return nil
	}
	raw, _ := v.Get(KeyAppliedOverrides)
	return SplitList(raw)
}
