/*
Package records – scraping-style loose-input cleaning.

A looser sibling of RecordType.New meant for freshly scraped or
hand-typed input: unknown keys are silently dropped rather than
rejected, blank strings become null on nullable fields, and string
values are trimmed before the usual per-field pipeline runs.
*/
package records

import "strings"

// Cleaner wraps a RecordType with a looser construction policy suited
// to freshly scraped input.
type Cleaner struct {
	rt *RecordType
}

// NewCleaner returns a Cleaner for rt.
func NewCleaner(rt *RecordType) *Cleaner { return &Cleaner{rt: rt} }

// Clean builds a record from raw, scraped-style input.
func (c *Cleaner) Clean(raw map[string]any) (*Record, error) {
	values := make(map[string]any, len(c.rt.fields))
	for name, spec := range c.rt.fields {
		v, present := raw[name]
		if !present {
			continue
		}
		values[name] = cleanFieldValue(spec, v)
	}
	return c.rt.New(values)
}

func cleanFieldValue(spec *FieldSpec, v any) any {
	switch t := v.(type) {
	case string:
		trimmed := strings.TrimSpace(t)
		if trimmed == "" && spec.Nullable() {
			return nil
		}
		return trimmed
	case map[string]any:
		rt, ok := resolvedTypeID(spec.Type()).(*RecordType)
		if !ok {
			return t
		}
		cleaned := make(map[string]any, len(t))
		for k, vv := range t {
			if sub, known := rt.fields[k]; known {
				cleaned[k] = cleanFieldValue(sub, vv)
			}
		}
		return cleaned
	default:
		return v
	}
}
