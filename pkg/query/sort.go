package query

import "strings"

// SortField is a single ordering term referencing a projection view name.
type SortField struct {
	Field      string `json:"field"`
	Descending bool   `json:"descending"`
}

// ParseSortFields parses "Title,-CreatedAt" into sort fields.
// A leading "-" sorts descending. Blank terms are skipped.
func ParseSortFields(s string) []SortField {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	parts := strings.Split(s, ",")
	fields := make([]SortField, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "-" {
			continue
		}
		if name, ok := strings.CutPrefix(part, "-"); ok {
			fields = append(fields, SortField{Field: name, Descending: true})
			continue
		}
		fields = append(fields, SortField{Field: part})
	}
	return fields
}
