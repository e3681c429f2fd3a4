package allocator

// ValidationError describes a slot that breaks a criterion after allocation
type ValidationError struct {
	SlotIndex     int
	EventID       string
	Date          string
	CriterionName string
	Description   string
}

// Criterion influences which candidates are allocated first and which slots
// they are proposed for
type Criterion interface {
	// Name returns a human-readable identifier for this criterion
	Name() string

	// PromoteCandidate returns a score between -1.0 and 1.0, multiplied by
	// PromoteWeight. Positive values allocate the candidate earlier.
	PromoteCandidate(state *State, candidate *Candidate) float64

	// IsSlotValid vetoes a slot for a candidate. If any criterion returns
	// false the candidate cannot be proposed for the slot.
	IsSlotValid(state *State, candidate *Candidate, slot *Slot) bool

	// CalculateSlotAffinity returns a score between 0.0 and 1.0, multiplied
	// by AffinityWeight. The slot with the highest total affinity is chosen.
	CalculateSlotAffinity(state *State, candidate *Candidate, slot *Slot) float64

	// ValidateState checks the final state against this criterion
	ValidateState(state *State) []ValidationError

	PromoteWeight() float64
	AffinityWeight() float64
}

// IsSlotValidForCandidate applies every criterion's veto
func IsSlotValidForCandidate(state *State, candidate *Candidate, slot *Slot, criteria []Criterion) bool {
	for _, c := range criteria {
		if !c.IsSlotValid(state, candidate, slot) {
			return false
		}
	}
	return true
}

// CalculateSlotAffinity sums the weighted affinities of every criterion
func CalculateSlotAffinity(state *State, candidate *Candidate, slot *Slot, criteria []Criterion) float64 {
	var total float64
	for _, c := range criteria {
		total += c.CalculateSlotAffinity(state, candidate, slot) * c.AffinityWeight()
	}
	return total
}

// ValidateState collects the validation errors of every criterion
func ValidateState(state *State, criteria []Criterion) []ValidationError {
	var errs []ValidationError
	for _, c := range criteria {
		errs = append(errs, c.ValidateState(state)...)
	}
	return errs
}
