package reports

import (
	"slices"
	"time"

	"github.com/JaimeStill/perito-hub/internal/photos"
	"github.com/google/uuid"
)

// Snapshot is a frozen copy of a report handed to a Gateway or Persister.
// Nothing in a snapshot aliases editor state.
type Snapshot struct {
	ReportID uuid.UUID       `json:"report_id"`
	Metadata Metadata        `json:"metadata"`
	Photos   []photos.Record `json:"photos"`
	Options  Options         `json:"options"`
	Revision uint64          `json:"revision"`
	TakenAt  time.Time       `json:"taken_at"`
}

func (s Snapshot) Clone() Snapshot {
	s.Metadata = s.Metadata.Clone()
	s.Photos = slices.Clone(s.Photos)
	if s.Photos == nil {
		s.Photos = []photos.Record{}
	}
	return s
}
