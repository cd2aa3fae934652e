// Package laudos is the catalog of expert reports (laudos periciais). Each
// laudo belongs to a case by its judicial number, and photographic reports
// attach to a laudo through their related_report_ref.
package laudos

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/google/uuid"
)

type Status string

const (
	StatusDrafting  Status = "em_elaboracao"
	StatusReviewing Status = "em_revisao"
	StatusFinished  Status = "finalizado"
	StatusDelivered Status = "entregue"
)

var statuses = []Status{StatusDrafting, StatusReviewing, StatusFinished, StatusDelivered}

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
	return "", fmt.Errorf("%w: unknown status %q", ErrInvalidLaudo, s)
}

// Laudo is an expert report under preparation or already filed.
type Laudo struct {
	ID            uuid.UUID    `json:"id"`
	ProcessNumber string       `json:"process_number"`
	Title         string       `json:"title"`
	Kind          string       `json:"kind"`
	Status        Status       `json:"status"`
	Introduction  *string      `json:"introduction,omitempty"`
	Methodology   *string      `json:"methodology,omitempty"`
	Analysis      string       `json:"analysis"`
	Conclusion    string       `json:"conclusion"`
	DeliveredAt   *photos.Date `json:"delivered_at,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

type CreateCommand struct {
	ProcessNumber string  `json:"process_number"`
	Title         string  `json:"title"`
	Kind          string  `json:"kind"`
	Status        Status  `json:"status"`
	Introduction  *string `json:"introduction,omitempty"`
	Methodology   *string `json:"methodology,omitempty"`
	Analysis      string  `json:"analysis"`
	Conclusion    string  `json:"conclusion"`
}

type UpdateCommand = CreateCommand

// Normalize trims text fields, drops blank optional sections and applies
// the default status.
func (c CreateCommand) Normalize() CreateCommand {
	c.ProcessNumber = strings.TrimSpace(c.ProcessNumber)
	c.Title = strings.TrimSpace(c.Title)
	c.Kind = strings.TrimSpace(c.Kind)
	c.Analysis = strings.TrimSpace(c.Analysis)
	c.Conclusion = strings.TrimSpace(c.Conclusion)
	c.Introduction = optional(c.Introduction)
	c.Methodology = optional(c.Methodology)
	if c.Status == "" {
		c.Status = StatusDrafting
	}
	return c
}

// Validate checks a normalized command. All violations are reported together.
func (c CreateCommand) Validate() error {
	var errs []error

	if c.ProcessNumber == "" {
		errs = append(errs, errors.New("process_number is required"))
	}
	if len([]rune(c.Title)) < 3 {
		errs = append(errs, errors.New("title must have at least 3 characters"))
	}
	if c.Kind == "" {
		errs = append(errs, errors.New("kind is required"))
	}
	if _, err := ParseStatus(string(c.Status)); err != nil {
		errs = append(errs, fmt.Errorf("unknown status %q", c.Status))
	}
	if len([]rune(c.Analysis)) < 10 {
		errs = append(errs, errors.New("analysis must have at least 10 characters"))
	}
	if len([]rune(c.Conclusion)) < 10 {
		errs = append(errs, errors.New("conclusion must have at least 10 characters"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidLaudo, errors.Join(errs...))
	}
	return nil
}

func optional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
