package photos

import (
	"fmt"
	"slices"
	"strings"
)

// IDPolicy selects how Add picks the next id. RecomputedIDs is the legacy
// behavior. MonotonicIDs is the default and differs from it only after the
// highest record is removed.
type IDPolicy int

const (
	// MonotonicIDs uses a high-water mark: the next id is one more than the
	// largest id this store has ever held, so removing the highest record
	// never frees its id for reuse.
	MonotonicIDs IDPolicy = iota

	// RecomputedIDs is the legacy rule: max(current ids)+1, or 1 when empty.
	// Removing the highest record and adding again hands its id out a
	// second time.
	RecomputedIDs
)

// ParseIDPolicy accepts "monotonic" or "recomputed". Empty selects MonotonicIDs.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "monotonic":
		return MonotonicIDs, nil
	case "recomputed":
		return RecomputedIDs, nil
	default:
		return MonotonicIDs, fmt.Errorf("unknown id policy %q", s)
	}
}

func (p IDPolicy) String() string {
	if p == RecomputedIDs {
		return "recomputed"
	}
	return "monotonic"
}

// Store is an ordered collection of records with unique ids. It is not safe
// for concurrent use; the owning editor serializes access.
type Store struct {
	records []Record
	highest int
	policy  IDPolicy
}

// NewStore returns an empty store using MonotonicIDs.
func NewStore() *Store {
	return &Store{}
}

// NewStoreWithPolicy returns an empty store using policy.
func NewStoreWithPolicy(policy IDPolicy) *Store {
	return &Store{policy: policy}
}

func (s *Store) Policy() IDPolicy {
	return s.policy
}

// Add appends a record built from d and returns it.
func (s *Store) Add(d Draft) Record {
	s.highest = s.nextID()
	rec := Record{
		ID:       s.highest,
		URL:      d.URL,
		Caption:  d.Caption,
		Location: d.Location,
		Date:     d.Date,
	}
	s.records = append(s.records, rec)
	return rec
}

// Remove deletes the record with id and returns it. Unknown ids are a no-op.
func (s *Store) Remove(id int) (Record, bool) {
	i := s.index(id)
	if i < 0 {
		return Record{}, false
	}
	rec := s.records[i]
	s.records = slices.Delete(s.records, i, i+1)
	return rec, true
}

// Update sets one field of the record with id. It reports whether a record
// changed; unknown ids return false with no error. An invalid field or date
// leaves the record untouched.
func (s *Store) Update(id int, field Field, value string) (bool, error) {
	i := s.index(id)
	if i < 0 {
		return false, nil
	}

	switch field {
	case FieldCaption:
		s.records[i].Caption = value
	case FieldLocation:
		s.records[i].Location = value
	case FieldDate:
		d, err := ParseDate(value)
		if err != nil {
			return false, err
		}
		s.records[i].Date = d
	default:
		return false, fmt.Errorf("%w: %q", ErrInvalidField, field)
	}
	return true, nil
}

// Move swaps the record with its neighbour in dir. It returns false when
// the id is unknown or the record is already at that end of the sequence.
func (s *Store) Move(id int, dir Direction) bool {
	i := s.index(id)
	if i < 0 {
		return false
	}

	j := i - 1
	if dir == Down {
		j = i + 1
	}
	if j < 0 || j >= len(s.records) {
		return false
	}

	s.records[i], s.records[j] = s.records[j], s.records[i]
	return true
}

// Load replaces the contents with records, in order. Records with
// duplicate ids are rejected.
func (s *Store) Load(records []Record) error {
	seen := make(map[int]bool, len(records))
	highest := 0
	for _, r := range records {
		if seen[r.ID] {
			return fmt.Errorf("duplicate photo id %d", r.ID)
		}
		if r.ID < 1 {
			return fmt.Errorf("photo id must be positive, got %d", r.ID)
		}
		seen[r.ID] = true
		highest = max(highest, r.ID)
	}

	s.records = slices.Clone(records)
	s.highest = highest
	return nil
}

// Find returns the record with id.
func (s *Store) Find(id int) (Record, bool) {
	if i := s.index(id); i >= 0 {
		return s.records[i], true
	}
	return Record{}, false
}

// Records returns a copy of the sequence. The result is never nil.
func (s *Store) Records() []Record {
	out := make([]Record, len(s.records))
	copy(out, s.records)
	return out
}

// IDs returns the ids in sequence order.
func (s *Store) IDs() []int {
	ids := make([]int, len(s.records))
	for i, r := range s.records {
		ids[i] = r.ID
	}
	return ids
}

func (s *Store) Len() int {
	return len(s.records)
}

func (s *Store) nextID() int {
	if s.policy == RecomputedIDs {
		highest := 0
		for _, r := range s.records {
			highest = max(highest, r.ID)
		}
		return highest + 1
	}
	return s.highest + 1
}

func (s *Store) index(id int) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.ID == id })
}
