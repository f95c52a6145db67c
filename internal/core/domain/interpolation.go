package domain

import (
	"strings"

	"go.trai.ch/zerr"
)

// MaxInterpolationDepth bounds how many nested references a value may follow.
const MaxInterpolationDepth = 10

func (d *Document) interpolate(section, key, raw string, depth int) (string, error) {
	if depth > MaxInterpolationDepth {
		return "", d.interpolationError("reference chain is too deep", section, key, raw)
	}
	if !strings.Contains(raw, "$") {
		return raw, nil
	}

	var b strings.Builder
	rest := raw
	for {
		idx := strings.IndexByte(rest, '$')
		if idx < 0 {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:idx])
		rest = rest[idx+1:]

		switch {
		case strings.HasPrefix(rest, "$"):
			b.WriteByte('$')
			rest = rest[1:]
		case strings.HasPrefix(rest, "{"):
			end := strings.IndexByte(rest, '}')
			if end < 0 {
				return "", d.interpolationError("unterminated reference", section, key, raw)
			}
			ref := rest[1:end]
			rest = rest[end+1:]

			refSection, refKey := section, ref
			if s, k, ok := strings.Cut(ref, ":"); ok {
				refSection, refKey = s, k
			}
			if refKey == "" || strings.Contains(refKey, ":") {
				return "", d.interpolationError("malformed reference", section, key, raw)
			}

			val, ok := d.Raw(refSection, refKey)
			if !ok {
				return "", zerr.With(d.interpolationError("unresolved reference", section, key, raw),
					"reference", ref)
			}
			expanded, err := d.interpolate(refSection, refKey, val, depth+1)
			if err != nil {
				return "", err
			}
			b.WriteString(expanded)
		default:
			return "", d.interpolationError("'$' must be followed by '$' or '{'", section, key, raw)
		}
	}
}

func (d *Document) interpolationError(msg, section, key, raw string) error {
	err := zerr.Wrap(ErrInterpolation, msg)
	err = zerr.With(err, "section", section)
	err = zerr.With(err, "key", key)
	return zerr.With(err, "value", raw)
}
