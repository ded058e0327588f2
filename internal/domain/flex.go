package domain

import (
	"strings"
)

// FlexKind tags the wire shape a list-valued form field arrived in.
type FlexKind int

const (
	// FlexList is a repeated form field, already a list.
	FlexList FlexKind = iota
	// FlexJSONEncoded is a single value holding a JSON-encoded array.
	FlexJSONEncoded
	// FlexCommaSeparated is a single comma-separated value.
	FlexCommaSeparated
)

// FlexStrings models the loose list-field convention of the admin forms as an
// explicit tagged union instead of runtime type probing: a field may arrive as
// a repeated form value, a JSON array string, or a comma-separated string.
type FlexStrings struct {
	Kind FlexKind
	List []string
	Raw  string
}

// FlexFromForm classifies raw form values for one field. Multiple values are a
// list; a single value starting with '[' is treated as JSON, anything else as
// comma-separated.
func FlexFromForm(values []string) FlexStrings {
	if len(values) > 1 {
		return FlexStrings{Kind: FlexList, List: values}
	}
	raw := ""
	if len(values) == 1 {
		raw = values[0]
	}
	if strings.HasPrefix(strings.TrimSpace(raw), "[") {
		return FlexStrings{Kind: FlexJSONEncoded, Raw: raw}
	}
	return FlexStrings{Kind: FlexCommaSeparated, Raw: raw}
}

// Normalize resolves the union to a clean list: elements trimmed, blanks
// dropped. A JSON value that fails to parse falls back to comma splitting,
// matching the admin form contract.
func (f FlexStrings) Normalize() []string {
	switch f.Kind {
	case FlexList:
		return cleanStrings(f.List)
	case FlexJSONEncoded:
		var parsed []string
		if err := json.UnmarshalFromString(f.Raw, &parsed); err == nil {
			return cleanStrings(parsed)
		}
		return splitComma(f.Raw)
	default:
		return splitComma(f.Raw)
	}
}

func splitComma(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	return cleanStrings(strings.Split(raw, ","))
}

func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
