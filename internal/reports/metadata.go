package reports

import (
	"fmt"
	"strings"
)

// DefaultTitle is used for reports opened without a title.
const DefaultTitle = "Relatório Fotográfico"

type MetadataField string

const (
	MetadataProcessRef       MetadataField = "process_ref"
	MetadataRelatedReportRef MetadataField = "related_report_ref"
	MetadataTitle            MetadataField = "title"
	MetadataDescription      MetadataField = "description"
)

// Metadata identifies a report and the case it belongs to.
type Metadata struct {
	ProcessRef       string  `json:"process_ref"`
	RelatedReportRef *string `json:"related_report_ref,omitempty"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
}

// Set replaces a single field. An empty related_report_ref clears the reference.
func (m *Metadata) Set(field MetadataField, value string) error {
	switch field {
	case MetadataProcessRef:
		m.ProcessRef = strings.TrimSpace(value)
	case MetadataRelatedReportRef:
		if v := strings.TrimSpace(value); v != "" {
			m.RelatedReportRef = &v
		} else {
			m.RelatedReportRef = nil
		}
	case MetadataTitle:
		m.Title = value
	case MetadataDescription:
		m.Description = value
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidMetadata, field)
	}
	return nil
}

func (m Metadata) Clone() Metadata {
	if m.RelatedReportRef != nil {
		ref := *m.RelatedReportRef
		m.RelatedReportRef = &ref
	}
	return m
}
