// Package photos holds the ordered photo collection edited in a
// photographic report. Sequence order is page order in the exported document.
package photos

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Date is a calendar date without time of day, encoded as "YYYY-MM-DD".
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar date in t's location.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO 8601 calendar date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(dateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Record is one photo in a report.
type Record struct {
	ID       int    `json:"id"`
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	Location string `json:"location"`
	Date     Date   `json:"date"`
}

// Draft carries the caller-supplied fields of a new record. The store assigns the id.
type Draft struct {
	URL      string `json:"url"`
	Caption  string `json:"caption"`
	Location string `json:"location"`
	Date     Date   `json:"date"`
}

// Field names an editable record attribute.
type Field string

const (
	FieldCaption  Field = "caption"
	FieldLocation Field = "location"
	FieldDate     Field = "date"
)

// Direction is a single-step move in the sequence.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection accepts "up" or "down" in any case.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(strings.TrimSpace(s))) {
	case Up:
		return Up, nil
	case Down:
		return Down, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidDirection, s)
	}
}
