// Package processes is the catalog of judicial cases (processos) the expert
// has been designated to. Reports reference a case by its judicial number.
package processes

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/google/uuid"
)

type Status string

const (
	StatusInProgress      Status = "em_andamento"
	StatusAwaitingDocs    Status = "aguardando_documentos"
	StatusAwaitingHearing Status = "aguardando_audiencia"
	StatusReportDelivered Status = "laudo_entregue"
	StatusConcluded       Status = "concluido"
)

var statuses = []Status{
	StatusInProgress,
	StatusAwaitingDocs,
	StatusAwaitingHearing,
	StatusReportDelivered,
	StatusConcluded,
}

// Statuses lists every valid status in workflow order.
func Statuses() []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}

func ParseStatus(s string) (Status, error) {
	v := Status(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range statuses {
		if v == known {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidProcess, s)
}

// Process is a case on the expert's docket.
type Process struct {
	ID           uuid.UUID   `json:"id"`
	Number       string      `json:"number"`
	Court        string      `json:"court"`
	Kind         string      `json:"kind"`
	Party        string      `json:"party"`
	Status       Status      `json:"status"`
	DesignatedAt photos.Date `json:"designated_at"`
	Deadline     photos.Date `json:"deadline"`
	Fee          Cents       `json:"fee"`
	Description  *string     `json:"description,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// Overdue reports whether the deadline passed before today and the case is
// still open.
func (p Process) Overdue(today time.Time) bool {
	if p.Deadline.IsZero() || p.Status == StatusReportDelivered || p.Status == StatusConcluded {
		return false
	}
	return p.Deadline.Before(photos.NewDate(today).Time)
}

type CreateCommand struct {
	Number       string      `json:"number"`
	Court        string      `json:"court"`
	Kind         string      `json:"kind"`
	Party        string      `json:"party"`
	Status       Status      `json:"status"`
	DesignatedAt photos.Date `json:"designated_at"`
	Deadline     photos.Date `json:"deadline"`
	Fee          Cents       `json:"fee"`
	Description  *string     `json:"description,omitempty"`
}

type UpdateCommand = CreateCommand

// Normalize trims text fields and applies the default status.
func (c CreateCommand) Normalize() CreateCommand {
	c.Number = strings.TrimSpace(c.Number)
	c.Court = strings.TrimSpace(c.Court)
	c.Kind = strings.TrimSpace(c.Kind)
	c.Party = strings.TrimSpace(c.Party)
	if c.Status == "" {
		c.Status = StatusInProgress
	}
	if c.Description != nil {
		d := strings.TrimSpace(*c.Description)
		if d == "" {
			c.Description = nil
		} else {
			c.Description = &d
		}
	}
	return c
}

// Validate checks a normalized command. All violations are reported together.
func (c CreateCommand) Validate() error {
	var errs []error

	if len([]rune(c.Number)) < 15 {
		errs = append(errs, errors.New("number must have at least 15 characters"))
	}
	if len([]rune(c.Court)) < 3 {
		errs = append(errs, errors.New("court must have at least 3 characters"))
	}
	if c.Kind == "" {
		errs = append(errs, errors.New("kind is required"))
	}
	if len([]rune(c.Party)) < 3 {
		errs = append(errs, errors.New("party must have at least 3 characters"))
	}
	if _, err := ParseStatus(string(c.Status)); err != nil {
		errs = append(errs, fmt.Errorf("unknown status %q", c.Status))
	}
	if c.Deadline.IsZero() {
		errs = append(errs, errors.New("deadline is required"))
	}
	if !c.DesignatedAt.IsZero() && !c.Deadline.IsZero() && c.Deadline.Before(c.DesignatedAt.Time) {
		errs = append(errs, errors.New("deadline precedes designation date"))
	}
	if c.Fee <= 0 {
		errs = append(errs, errors.New("fee is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidProcess, errors.Join(errs...))
	}
	return nil
}

// Cents is a BRL amount in centavos. It encodes as a JSON integer and also
// decodes the "R$ 5.000,00" form used on case paperwork.
type Cents int64

func (c Cents) String() string {
	neg := c < 0
	if neg {
		c = -c
	}
	reais := strconv.FormatInt(int64(c)/100, 10)

	var b strings.Builder
	for i, r := range reais {
		if i > 0 && (len(reais)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%sR$ %s,%02d", sign, b.String(), int64(c)%100)
}

// ParseCents accepts "R$ 5.000,00", "5000,5" or "5000".
func ParseCents(s string) (Cents, error) {
	v := strings.TrimSpace(s)
	v = strings.TrimPrefix(v, "R$")
	v = strings.TrimSpace(v)
	v = strings.ReplaceAll(v, ".", "")

	whole, frac, hasFrac := strings.Cut(v, ",")
	if whole == "" {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrInvalidProcess, s)
	}
	reais, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid amount %q", ErrInvalidProcess, s)
	}

	var centavos int64
	if hasFrac {
		if len(frac) == 0 || len(frac) > 2 {
			return 0, fmt.Errorf("%w: invalid amount %q", ErrInvalidProcess, s)
		}
		if len(frac) == 1 {
			frac += "0"
		}
		centavos, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: invalid amount %q", ErrInvalidProcess, s)
		}
	}
	return Cents(reais*100 + centavos), nil
}

func (c *Cents) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*c = Cents(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: fee must be integer cents or a BRL string", ErrInvalidProcess)
	}
	parsed, err := ParseCents(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
