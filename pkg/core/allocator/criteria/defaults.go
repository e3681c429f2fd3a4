package criteria

import "github.com/agendaccp/agenda-ccp/pkg/core/allocator"

const (
	DefaultFillAffinityWeight   = 2.0
	DefaultSpreadAffinityWeight = 1.0
)

// Defaults returns the criteria used to fill a month's schedule
func Defaults() []allocator.Criterion {
	return []allocator.Criterion{
		NewFillCriterion(DefaultFillAffinityWeight),
		NewSpreadCriterion(DefaultSpreadAffinityWeight),
		NewSameDayCriterion(),
	}
}
