package scoring

import "fmt"

// Criterion is one weighted dimension of a candidate evaluation.
// Criteria are defined per role by an administrator and treated as immutable
// once evaluations reference them - changing a criterion retroactively would
// change the meaning of historical composites.
type Criterion struct {
	// ID uniquely identifies the criterion
	ID string

	// Label is the human-readable name shown on evaluation forms
	Label string

	// Weight is the criterion's share of the composite. Weights are
	// interpreted as proportions of the total weight supplied, so a set of
	// criteria does not need to sum to 100
	Weight float64

	// MaxScore is the ceiling for raw scores on this criterion (must be > 0)
	MaxScore float64
}

// Entry is one evaluator's raw score for one criterion.
type Entry struct {
	CriterionID string

	// RawScore must lie in [0, criterion.MaxScore]
	RawScore float64

	// Comment is an optional free-text justification
	Comment string
}

// Contribution is one criterion's share of a composite score.
type Contribution struct {
	CriterionID string

	// Normalized is the entry's score rescaled to 0..100
	Normalized float64

	// Weight is the criterion's raw weight as supplied
	Weight float64

	// Contribution is Normalized * (Weight / totalWeight)
	Contribution float64
}

// Composite is the aggregated result of combining all entries for one subject.
// It is derived, never stored - recompute it whenever the entries change.
type Composite struct {
	// TotalWeightedPercentage is the final composite in [0, 100]
	TotalWeightedPercentage float64

	// Breakdown lists per-criterion contributions in input order
	Breakdown []Contribution
}

// ValidationError indicates an entry violated a precondition of the
// composite calculation. It always names the offending criterion.
type ValidationError struct {
	CriterionID string
	Message     string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid entry for criterion %q: %s", e.CriterionID, e.Message)
}

// ComputeComposite combines one subject's score entries into a single
// weighted percentage with a per-criterion breakdown.
//
// For each entry the raw score is normalized to 0..100 against the
// criterion's MaxScore, then weighted by the criterion's share of the total
// weight across the supplied criteria. The total weight is recomputed per
// invocation so criteria sets of different sizes and scales stay correct.
//
// Preconditions (violations return a *ValidationError, never a clamped
// result):
//   - every entry references a known criterion
//   - every raw score lies in [0, criterion.MaxScore]
//   - every criterion has MaxScore > 0 and Weight >= 0
//
// Degenerate inputs are resolved to a defined default rather than raised: an
// empty entry list, or a total weight of zero, yields a composite of 0 with
// an empty (respectively zero-contribution) breakdown. A partially filled
// evaluation form legitimately hits this state, so it is not an error.
//
// The function is pure: no side effects, deterministic, safe to call
// concurrently.
func ComputeComposite(criteria []Criterion, entries []Entry) (*Composite, error) {
	byID := make(map[string]Criterion, len(criteria))
	for _, c := range criteria {
		if c.MaxScore <= 0 {
			return nil, &ValidationError{CriterionID: c.ID, Message: fmt.Sprintf("max score must be positive, got %g", c.MaxScore)}
		}
		if c.Weight < 0 {
			return nil, &ValidationError{CriterionID: c.ID, Message: fmt.Sprintf("weight must be non-negative, got %g", c.Weight)}
		}
		byID[c.ID] = c
	}

	// Validate every entry before computing anything, so a bad entry can
	// never produce a partial composite
	for _, entry := range entries {
		criterion, ok := byID[entry.CriterionID]
		if !ok {
			return nil, &ValidationError{CriterionID: entry.CriterionID, Message: "unknown criterion"}
		}
		if entry.RawScore < 0 || entry.RawScore > criterion.MaxScore {
			return nil, &ValidationError{
				CriterionID: entry.CriterionID,
				Message:     fmt.Sprintf("raw score %g outside [0, %g]", entry.RawScore, criterion.MaxScore),
			}
		}
	}

	// Total weight covers only the criteria actually scored, so weights act
	// as proportions of the submitted set
	totalWeight := 0.0
	for _, entry := range entries {
		totalWeight += byID[entry.CriterionID].Weight
	}

	composite := &Composite{Breakdown: make([]Contribution, 0, len(entries))}

	for _, entry := range entries {
		criterion := byID[entry.CriterionID]
		normalized := (entry.RawScore / criterion.MaxScore) * 100

		// Guard the zero-weight case explicitly: the composite is defined as
		// 0, not NaN
		contribution := 0.0
		if totalWeight > 0 {
			contribution = normalized * (criterion.Weight / totalWeight)
		}

		composite.TotalWeightedPercentage += contribution
		composite.Breakdown = append(composite.Breakdown, Contribution{
			CriterionID:  entry.CriterionID,
			Normalized:   normalized,
			Weight:       criterion.Weight,
			Contribution: contribution,
		})
	}

	return composite, nil
}
