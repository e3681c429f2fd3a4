package allocator

import (
	"cmp"
	"slices"
)

// RankCandidates sorts the candidate queue by descending ranking score.
// Ties go to the candidate with the smaller name, then ID.
func RankCandidates(state *State, criteria []Criterion) {
	scores := make(map[*Candidate]float64, len(state.Candidates))
	for _, c := range state.Candidates {
		scores[c] = candidateScore(state, c, criteria)
	}

	slices.SortStableFunc(state.Candidates, func(a, b *Candidate) int {
		if n := cmp.Compare(scores[b], scores[a]); n != 0 {
			return n
		}
		if n := cmp.Compare(a.Name, b.Name); n != 0 {
			return n
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// candidateScore combines load fairness with the criteria's promotion.
// Fairness is 1 for a candidate who has served nothing and falls towards 0
// as their total load grows.
func candidateScore(state *State, candidate *Candidate, criteria []Criterion) float64 {
	score := state.WeightFairness / float64(1+candidate.TotalLoad())
	for _, c := range criteria {
		score += c.PromoteCandidate(state, candidate) * c.PromoteWeight()
	}
	return score
}

// reinsertCandidate puts a candidate back into the ranked queue at the first
// position whose score is lower than its own
func reinsertCandidate(state *State, candidate *Candidate, criteria []Criterion) {
	score := candidateScore(state, candidate, criteria)

	insertIdx := len(state.Candidates)
	for i, other := range state.Candidates {
		if score > candidateScore(state, other, criteria) {
			insertIdx = i
			break
		}
	}

	state.Candidates = slices.Insert(state.Candidates, insertIdx, candidate)
}
