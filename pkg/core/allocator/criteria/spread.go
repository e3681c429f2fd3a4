package criteria

import (
	"time"

	"github.com/agendaccp/agenda-ccp/pkg/core/allocator"
)

const hoursPerDay = 24

// SpreadCriterion prefers slots far from the candidate's other services.
//
// Affinity:
//   - The distance in days to the nearest slot the candidate serves, relative
//     to the span of the month's slots
//   - 1.0 when the candidate serves nothing yet
//
// Validity and promotion: none
type SpreadCriterion struct {
	affinityWeight float64
}

// NewSpreadCriterion creates a SpreadCriterion with the given affinity weight
func NewSpreadCriterion(affinityWeight float64) *SpreadCriterion {
	return &SpreadCriterion{affinityWeight: affinityWeight}
}

func (c *SpreadCriterion) Name() string {
	return "Spread"
}

func (c *SpreadCriterion) PromoteCandidate(state *allocator.State, candidate *allocator.Candidate) float64 {
	return 0
}

func (c *SpreadCriterion) IsSlotValid(state *allocator.State, candidate *allocator.Candidate, slot *allocator.Slot) bool {
	return true
}

func (c *SpreadCriterion) CalculateSlotAffinity(state *allocator.State, candidate *allocator.Candidate, slot *allocator.Slot) float64 {
	if len(state.Slots) < 2 {
		return 0.5
	}
	first := state.Slots[0].Date
	last := state.Slots[len(state.Slots)-1].Date
	maxDistance := daysBetween(first, last)
	if maxDistance == 0 {
		return 0.5
	}

	minDistance := maxDistance
	for _, idx := range candidate.SlotIndices {
		if idx == slot.Index {
			continue
		}
		if d := daysBetween(state.Slots[idx].Date, slot.Date); d < minDistance {
			minDistance = d
		}
	}

	return float64(minDistance) / float64(maxDistance)
}

func (c *SpreadCriterion) PromoteWeight() float64 {
	return 0
}

func (c *SpreadCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *SpreadCriterion) ValidateState(state *allocator.State) []allocator.ValidationError {
	return nil
}

// daysBetween returns the absolute number of whole days between two civil dates
func daysBetween(a, b time.Time) int {
	d := int(b.Sub(a).Hours()) / hoursPerDay
	if d < 0 {
		return -d
	}
	return d
}
