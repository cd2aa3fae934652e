package reports

import (
	"fmt"
	"strings"
)

// DefaultFooter is printed at the bottom of every exported page unless
// the report overrides it.
const DefaultFooter = "Relatório gerado pelo PeritoHub - Sistema de Gestão para Peritos Judiciais"

type PageSize string

const (
	PageA4     PageSize = "a4"
	PageLetter PageSize = "letter"
	PageLegal  PageSize = "legal"
)

func ParsePageSize(s string) (PageSize, error) {
	switch p := PageSize(strings.ToLower(strings.TrimSpace(s))); p {
	case PageA4, PageLetter, PageLegal:
		return p, nil
	default:
		return "", fmt.Errorf("%w: page size %q not in {a4, letter, legal}", ErrInvalidOption, s)
	}
}

type Orientation string

const (
	Portrait  Orientation = "portrait"
	Landscape Orientation = "landscape"
)

func ParseOrientation(s string) (Orientation, error) {
	switch o := Orientation(strings.ToLower(strings.TrimSpace(s))); o {
	case Portrait, Landscape:
		return o, nil
	default:
		return "", fmt.Errorf("%w: orientation %q not in {portrait, landscape}", ErrInvalidOption, s)
	}
}

// OptionField names one settable export option.
type OptionField string

const (
	OptionPageSize    OptionField = "page_size"
	OptionOrientation OptionField = "orientation"
	OptionFooterText  OptionField = "footer_text"
)

// Options controls the layout of an exported document.
type Options struct {
	PageSize    PageSize    `json:"page_size"`
	Orientation Orientation `json:"orientation"`
	FooterText  string      `json:"footer_text"`
}

// DefaultOptions returns A4 portrait with the given footer, or DefaultFooter
// when footer is empty.
func DefaultOptions(footer string) Options {
	if footer == "" {
		footer = DefaultFooter
	}
	return Options{
		PageSize:    PageA4,
		Orientation: Portrait,
		FooterText:  footer,
	}
}

// Set replaces a single option. A rejected value leaves the options unchanged.
func (o *Options) Set(field OptionField, value string) error {
	switch field {
	case OptionPageSize:
		p, err := ParsePageSize(value)
		if err != nil {
			return err
		}
		o.PageSize = p
	case OptionOrientation:
		or, err := ParseOrientation(value)
		if err != nil {
			return err
		}
		o.Orientation = or
	case OptionFooterText:
		o.FooterText = value
	default:
		return fmt.Errorf("%w: unknown field %q", ErrInvalidOption, field)
	}
	return nil
}

// Validate checks the enum fields of a fully decoded option set.
func (o Options) Validate() error {
	if _, err := ParsePageSize(string(o.PageSize)); err != nil {
		return err
	}
	if _, err := ParseOrientation(string(o.Orientation)); err != nil {
		return err
	}
	return nil
}

// Normalize lowercases the enum fields so "A4" and "a4" compare equal.
func (o Options) Normalize() Options {
	o.PageSize = PageSize(strings.ToLower(strings.TrimSpace(string(o.PageSize))))
	o.Orientation = Orientation(strings.ToLower(strings.TrimSpace(string(o.Orientation))))
	return o
}
