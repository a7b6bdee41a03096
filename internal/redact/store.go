package redact

import "github.com/nao1215/imgshield/internal/model"

// Store is the ordered list of committed regions.
// Regions can only be appended or cleared all at once.
type Store struct {
	regions []model.Region
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{regions: make([]model.Region, 0)}
}

// Append adds a region after all existing ones.
func (s *Store) Append(r model.Region) {
	s.regions = append(s.regions, r)
}

// Clear removes every region.
func (s *Store) Clear() {
	s.regions = s.regions[:0]
}

// SetGlobalBlurParameter sets the blur strength of every blur region.
// Blackout regions keep their value.
func (s *Store) SetGlobalBlurParameter(v int) {
	for i := range s.regions {
		if s.regions[i].Effect.IsBlur() {
			s.regions[i].BlurParameter = v
		}
	}
}

// List returns a copy of the regions in insertion order.
func (s *Store) List() []model.Region {
	out := make([]model.Region, len(s.regions))
	copy(out, s.regions)
	return out
}

// Len returns the number of regions.
func (s *Store) Len() int {
	return len(s.regions)
}
