package allocator

import (
	"slices"
	"time"
)

// Candidate is an active volunteer who may be proposed for open slots
type Candidate struct {
	ID   string
	Name string

	// SlotIndices holds the slots the candidate already serves in, whether
	// stored before allocation or proposed during it
	SlotIndices []int

	// ProposedCount is how many of SlotIndices were added by the allocator
	ProposedCount int

	// HistoricalCount is how many events the candidate served before this month
	HistoricalCount int
}

// Load is the number of events the candidate serves this month
func (c *Candidate) Load() int {
	return len(c.SlotIndices)
}

// TotalLoad counts this month's events plus the historical ones
func (c *Candidate) TotalLoad() int {
	return c.HistoricalCount + c.Load()
}

// Serves reports whether the candidate is in the slot
func (c *Candidate) Serves(slotIndex int) bool {
	return slices.Contains(c.SlotIndices, slotIndex)
}

// Slot is one event with its capacity and the candidates filling it
type Slot struct {
	Index   int
	EventID string
	Date    time.Time
	Title   string
	Size    int

	// Existing counts assignments stored before allocation, including those
	// of volunteers that are not candidates (inactive ones)
	Existing int

	Proposed []*Candidate
}

// CurrentSize counts stored and proposed volunteers
func (s *Slot) CurrentSize() int {
	return s.Existing + len(s.Proposed)
}

// IsFull reports whether the slot reached its size
func (s *Slot) IsFull() bool {
	return s.CurrentSize() >= s.Size
}

// RemainingCapacity is how many more volunteers the slot can take
func (s *Slot) RemainingCapacity() int {
	return max(s.Size-s.CurrentSize(), 0)
}

// State is the allocation in progress
type State struct {
	Slots []*Slot

	// Candidates is the ranked queue of candidates still being allocated
	Candidates []*Candidate

	// Exhausted holds candidates that reached their limit or have no valid slot left
	Exhausted map[*Candidate]bool

	// MaxPerVolunteer caps a candidate's load for the month; 0 means no cap
	MaxPerVolunteer int

	WeightFairness float64
}

// AllCandidates returns queued and exhausted candidates
func (s *State) AllCandidates() []*Candidate {
	all := slices.Clone(s.Candidates)
	for c := range s.Exhausted {
		all = append(all, c)
	}
	return all
}

// RemainingCandidates counts candidates that are not exhausted and do not
// already serve in the slot
func (s *State) RemainingCandidates(slot *Slot) int {
	count := 0
	for _, c := range s.Candidates {
		if !c.Serves(slot.Index) {
			count++
		}
	}
	return count
}

// AtLimit reports whether the candidate reached MaxPerVolunteer
func (s *State) AtLimit(c *Candidate) bool {
	return s.MaxPerVolunteer > 0 && c.Load() >= s.MaxPerVolunteer
}
