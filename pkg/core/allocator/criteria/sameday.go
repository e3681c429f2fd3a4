package criteria

import (
	"fmt"

	"github.com/agendaccp/agenda-ccp/pkg/core/allocator"
	"github.com/agendaccp/agenda-ccp/pkg/core/model"
)

// SameDayCriterion keeps a volunteer to one service per day, so nobody is
// proposed for both the morning and the evening service of a Sunday.
//
// Validity:
//   - Returns false if the candidate already serves another slot on the same date
//
// Affinity and promotion: none
type SameDayCriterion struct{}

// NewSameDayCriterion creates a SameDayCriterion
func NewSameDayCriterion() *SameDayCriterion {
	return &SameDayCriterion{}
}

func (c *SameDayCriterion) Name() string {
	return "SameDay"
}

func (c *SameDayCriterion) PromoteCandidate(state *allocator.State, candidate *allocator.Candidate) float64 {
	return 0
}

func (c *SameDayCriterion) IsSlotValid(state *allocator.State, candidate *allocator.Candidate, slot *allocator.Slot) bool {
	return !servesOtherSlotOnDate(state, candidate, slot)
}

func (c *SameDayCriterion) CalculateSlotAffinity(state *allocator.State, candidate *allocator.Candidate, slot *allocator.Slot) float64 {
	return 0
}

func (c *SameDayCriterion) PromoteWeight() float64 {
	return 0
}

func (c *SameDayCriterion) AffinityWeight() float64 {
	return 0
}

// ValidateState reports proposals that put a volunteer twice on one day.
// Stored assignments are left alone.
func (c *SameDayCriterion) ValidateState(state *allocator.State) []allocator.ValidationError {
	var errs []allocator.ValidationError
	for _, slot := range state.Slots {
		for _, candidate := range slot.Proposed {
			if servesOtherSlotOnDate(state, candidate, slot) {
				errs = append(errs, allocator.ValidationError{
					SlotIndex:     slot.Index,
					EventID:       slot.EventID,
					Date:          slot.Date.Format(model.DateLayout),
					CriterionName: c.Name(),
					Description:   fmt.Sprintf("%s serves more than one event on this day", candidate.Name),
				})
			}
		}
	}
	return errs
}

func servesOtherSlotOnDate(state *allocator.State, candidate *allocator.Candidate, slot *allocator.Slot) bool {
	for _, idx := range candidate.SlotIndices {
		if idx == slot.Index {
			continue
		}
		if model.SameDate(state.Slots[idx].Date, slot.Date) {
			return true
		}
	}
	return false
}
