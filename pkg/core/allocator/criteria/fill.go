package criteria

import (
	"fmt"

	"github.com/agendaccp/agenda-ccp/pkg/core/allocator"
	"github.com/agendaccp/agenda-ccp/pkg/core/model"
)

// FillCriterion never overfills a slot and steers candidates towards the
// slots that are hardest to fill.
//
// Validity:
//   - Returns false once the slot reached its size
//
// Affinity:
//   - Remaining capacity over the candidates still able to take the slot,
//     capped at 1.0, so scarce slots are filled first
//
// Validation:
//   - Reports every slot left below its size
type FillCriterion struct {
	affinityWeight float64
}

// NewFillCriterion creates a FillCriterion with the given affinity weight
func NewFillCriterion(affinityWeight float64) *FillCriterion {
	return &FillCriterion{affinityWeight: affinityWeight}
}

func (c *FillCriterion) Name() string {
	return "Fill"
}

func (c *FillCriterion) PromoteCandidate(state *allocator.State, candidate *allocator.Candidate) float64 {
	return 0
}

func (c *FillCriterion) IsSlotValid(state *allocator.State, candidate *allocator.Candidate, slot *allocator.Slot) bool {
	return slot.RemainingCapacity() > 0
}

func (c *FillCriterion) CalculateSlotAffinity(state *allocator.State, candidate *allocator.Candidate, slot *allocator.Slot) float64 {
	remaining := slot.RemainingCapacity()
	// the candidate being placed is no longer in the queue
	available := state.RemainingCandidates(slot) + 1

	return min(float64(remaining)/float64(available), 1.0)
}

func (c *FillCriterion) PromoteWeight() float64 {
	return 0
}

func (c *FillCriterion) AffinityWeight() float64 {
	return c.affinityWeight
}

func (c *FillCriterion) ValidateState(state *allocator.State) []allocator.ValidationError {
	var errs []allocator.ValidationError
	for _, slot := range state.Slots {
		if missing := slot.RemainingCapacity(); missing > 0 {
			errs = append(errs, allocator.ValidationError{
				SlotIndex:     slot.Index,
				EventID:       slot.EventID,
				Date:          slot.Date.Format(model.DateLayout),
				CriterionName: c.Name(),
				Description:   fmt.Sprintf("%s needs %d more volunteers", slot.Title, missing),
			})
		}
	}
	return errs
}
