package allocator

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

// DefaultWeightFairness favours candidates who served least
const DefaultWeightFairness = 1.0

// EventInput is an event of the month being filled
type EventInput struct {
	ID    string
	Date  time.Time
	Title string
	Size  int

	// AssignedVolunteerIDs are the volunteers already stored for the event
	AssignedVolunteerIDs []string
}

// VolunteerInput is a volunteer that may be proposed
type VolunteerInput struct {
	ID              string
	Name            string
	HistoricalCount int
}

// Config contains the inputs of an allocation
type Config struct {
	Criteria   []Criterion
	Events     []EventInput
	Volunteers []VolunteerInput

	// MaxPerVolunteer caps each volunteer's events in the month; 0 means no cap
	MaxPerVolunteer int

	WeightFairness float64
}

// Proposal is one volunteer proposed for one event
type Proposal struct {
	EventID     string
	VolunteerID string
}

// Outcome is the result of an allocation
type Outcome struct {
	State     *State
	Proposals []Proposal

	// Unfilled holds the slots still below their size
	Unfilled []*Slot

	ValidationErrors []ValidationError

	// Load maps each candidate's volunteer ID to the events they serve this
	// month, stored and proposed
	Load map[string]int

	// Success is true when every slot is full and no criterion was broken
	Success bool
}

// Allocator fills open slots one candidate at a time
type Allocator struct {
	criteria  []Criterion
	state     *State
	proposals []Proposal
}

// Init builds the initial state: slots ordered by date, candidates seeded
// with their stored assignments and ranked
func Init(config Config) (*Allocator, error) {
	if config.MaxPerVolunteer < 0 {
		return nil, fmt.Errorf("max per volunteer must not be negative, got %d", config.MaxPerVolunteer)
	}

	events := make([]EventInput, len(config.Events))
	copy(events, config.Events)
	sort.SliceStable(events, func(i, j int) bool { return events[i].Date.Before(events[j].Date) })

	state := &State{
		Exhausted:       make(map[*Candidate]bool),
		MaxPerVolunteer: config.MaxPerVolunteer,
		WeightFairness:  config.WeightFairness,
	}

	candidates := make(map[string]*Candidate, len(config.Volunteers))
	for _, v := range config.Volunteers {
		if v.ID == "" {
			return nil, errors.New("volunteer ID must not be empty")
		}
		if _, ok := candidates[v.ID]; ok {
			return nil, fmt.Errorf("duplicate volunteer %s", v.ID)
		}
		c := &Candidate{ID: v.ID, Name: v.Name, HistoricalCount: v.HistoricalCount}
		candidates[v.ID] = c
		state.Candidates = append(state.Candidates, c)
	}

	seen := make(map[string]bool, len(events))
	for i, e := range events {
		if e.Size < 1 {
			return nil, fmt.Errorf("event %s must need at least one volunteer, got %d", e.ID, e.Size)
		}
		if seen[e.ID] {
			return nil, fmt.Errorf("duplicate event %s", e.ID)
		}
		seen[e.ID] = true

		slot := &Slot{Index: i, EventID: e.ID, Date: e.Date, Title: e.Title, Size: e.Size, Existing: len(e.AssignedVolunteerIDs)}
		for _, id := range e.AssignedVolunteerIDs {
			if c, ok := candidates[id]; ok {
				c.SlotIndices = append(c.SlotIndices, i)
			}
		}
		state.Slots = append(state.Slots, slot)
	}

	a := &Allocator{criteria: config.Criteria, state: state}

	// Candidates already at their limit take no part
	queued := state.Candidates[:0]
	for _, c := range state.Candidates {
		if state.AtLimit(c) {
			state.Exhausted[c] = true
			continue
		}
		queued = append(queued, c)
	}
	state.Candidates = queued

	RankCandidates(state, a.criteria)
	return a, nil
}

// Allocate proposes candidates for open slots until every slot is full or
// no candidate can be placed
func Allocate(config Config) (*Outcome, error) {
	a, err := Init(config)
	if err != nil {
		return nil, err
	}

	for !a.allSlotsFull() && len(a.state.Candidates) > 0 {
		candidate := a.state.Candidates[0]
		a.state.Candidates = a.state.Candidates[1:]

		slot := a.findBestSlot(candidate)
		if slot == nil {
			a.state.Exhausted[candidate] = true
			continue
		}

		a.propose(candidate, slot)

		if a.state.AtLimit(candidate) {
			a.state.Exhausted[candidate] = true
			continue
		}
		reinsertCandidate(a.state, candidate, a.criteria)
	}

	return a.buildOutcome(), nil
}

// findBestSlot returns the open, valid slot with the highest affinity for
// the candidate; ties go to the earlier slot
func (a *Allocator) findBestSlot(candidate *Candidate) *Slot {
	var best *Slot
	bestAffinity := -1.0

	for _, slot := range a.state.Slots {
		if slot.IsFull() || candidate.Serves(slot.Index) {
			continue
		}
		if !IsSlotValidForCandidate(a.state, candidate, slot, a.criteria) {
			continue
		}

		affinity := CalculateSlotAffinity(a.state, candidate, slot, a.criteria)
		if affinity > bestAffinity {
			bestAffinity = affinity
			best = slot
		}
	}

	return best
}

func (a *Allocator) propose(candidate *Candidate, slot *Slot) {
	slot.Proposed = append(slot.Proposed, candidate)
	candidate.SlotIndices = append(candidate.SlotIndices, slot.Index)
	candidate.ProposedCount++
	a.proposals = append(a.proposals, Proposal{EventID: slot.EventID, VolunteerID: candidate.ID})
}

func (a *Allocator) allSlotsFull() bool {
	for _, slot := range a.state.Slots {
		if !slot.IsFull() {
			return false
		}
	}
	return true
}

func (a *Allocator) buildOutcome() *Outcome {
	outcome := &Outcome{
		State:            a.state,
		Proposals:        a.proposals,
		Unfilled:         []*Slot{},
		ValidationErrors: ValidateState(a.state, a.criteria),
		Load:             make(map[string]int),
	}
	if outcome.Proposals == nil {
		outcome.Proposals = []Proposal{}
	}
	if outcome.ValidationErrors == nil {
		outcome.ValidationErrors = []ValidationError{}
	}

	for _, slot := range a.state.Slots {
		if !slot.IsFull() {
			outcome.Unfilled = append(outcome.Unfilled, slot)
		}
	}

	for _, c := range a.state.AllCandidates() {
		outcome.Load[c.ID] = c.Load()
	}

	outcome.Success = len(outcome.Unfilled) == 0 && len(outcome.ValidationErrors) == 0
	return outcome
}
