package matching

import (
	"fmt"
	"math"
	"sort"
)

// Factor names used by the volunteer and trainer matchers
const (
	FactorLocation     = "location"
	FactorDistribution = "distribution"
	FactorPerformance  = "performance"
	FactorEngagement   = "engagement"
)

// FactorMaxima defines the point allocation for each scoring factor.
// Maxima are chosen at design time to sum to 100, so a composite is the plain
// sum of factor scores with no further normalization. This deliberately
// differs from the evaluation composite in pkg/core/scoring, which normalizes
// percentages before weighting - the two conventions evolved for different
// features and are kept as separate, documented variants.
type FactorMaxima map[string]float64

// DefaultMaxima returns the standard point allocation for volunteer and
// trainer matching: location 30, distribution fairness 30, performance 25,
// engagement 15.
func DefaultMaxima() FactorMaxima {
	return FactorMaxima{
		FactorLocation:     30,
		FactorDistribution: 30,
		FactorPerformance:  25,
		FactorEngagement:   15,
	}
}

// Validate checks that maxima sum to 100 (with a small tolerance) and that
// none are negative.
func (m FactorMaxima) Validate() error {
	sum := 0.0
	for factor, max := range m {
		if max < 0 {
			return fmt.Errorf("negative maximum for factor %q: %g", factor, max)
		}
		sum += max
	}
	if math.Abs(sum-100) > 0.001 {
		return fmt.Errorf("factor maxima sum to %.4f, must sum to 100", sum)
	}
	return nil
}

// factorNames returns the factor names in deterministic (sorted) order
func (m FactorMaxima) factorNames() []string {
	names := make([]string, 0, len(m))
	for factor := range m {
		names = append(names, factor)
	}
	sort.Strings(names)
	return names
}

// Candidate is one person under consideration for an event, with a score per
// factor. Factor scores are produced by bounded sub-heuristics (see
// factors.go), so an out-of-range value indicates a caller bug.
type Candidate struct {
	ID      string
	Factors map[string]float64
}

// FactorScore is one factor's contribution to a candidate's composite.
type FactorScore struct {
	Factor string
	Score  float64
	Max    float64

	// Clamped is true if the raw value was outside [0, Max] and was pulled
	// back into range. Callers should log these as anomalies
	Clamped bool
}

// RankedResult is one candidate's position in the ranking for an event.
type RankedResult struct {
	CandidateID string
	Composite   float64

	// Rank is 1-based; candidates with equal composites still get distinct
	// ranks in tie-break order
	Rank int

	// Breakdown lists factor contributions in sorted factor-name order
	Breakdown []FactorScore
}

// ValidationError indicates a candidate's factor set did not match the
// required maxima.
type ValidationError struct {
	CandidateID string
	Factor      string
	Message     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("candidate %q factor %q: %s", e.CandidateID, e.Factor, e.Message)
}

// Rank computes composite scores for all candidates and orders them best
// first.
//
// Every candidate must carry a score for every factor named in maxima - a
// missing factor is a *ValidationError. Out-of-range factor values are
// clamped to [0, max] and flagged in the breakdown rather than failing: the
// scores come from bounded heuristics, so an excursion is a caller bug that
// should surface in logs, not corrupt the composite.
//
// Ordering is deterministic: composite descending, then candidate ID
// ascending for equal composites. Two runs over identical input always
// produce identical output.
func Rank(candidates []Candidate, maxima FactorMaxima) ([]RankedResult, error) {
	if err := maxima.Validate(); err != nil {
		return nil, fmt.Errorf("invalid factor maxima: %w", err)
	}

	factors := maxima.factorNames()
	results := make([]RankedResult, 0, len(candidates))

	for _, candidate := range candidates {
		result := RankedResult{
			CandidateID: candidate.ID,
			Breakdown:   make([]FactorScore, 0, len(factors)),
		}

		for _, factor := range factors {
			score, ok := candidate.Factors[factor]
			if !ok {
				return nil, &ValidationError{CandidateID: candidate.ID, Factor: factor, Message: "missing required factor"}
			}

			max := maxima[factor]
			clamped := false
			if score < 0 {
				score = 0
				clamped = true
			}
			if score > max {
				score = max
				clamped = true
			}

			result.Composite += score
			result.Breakdown = append(result.Breakdown, FactorScore{
				Factor:  factor,
				Score:   score,
				Max:     max,
				Clamped: clamped,
			})
		}

		results = append(results, result)
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].Composite != results[j].Composite {
			return results[i].Composite > results[j].Composite
		}
		return results[i].CandidateID < results[j].CandidateID
	})

	for i := range results {
		results[i].Rank = i + 1
	}

	return results, nil
}
