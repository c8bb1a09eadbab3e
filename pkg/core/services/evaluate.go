package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/scoring"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// ScoreInput is one evaluator's raw score for one criterion.
type ScoreInput struct {
	CriterionID string
	RawScore    float64
	Comment     string
}

// EvaluationResult is the outcome of one evaluator's submission: the stored
// entries plus the composite computed from them.
type EvaluationResult struct {
	Entries   []db.EvaluationEntry
	Composite *scoring.Composite
}

// EvaluateCandidate records one evaluator's scores for a candidate's
// application and returns the resulting composite.
//
// Scores are validated against the cycle's criteria before anything is
// written - an out-of-range or unknown-criterion score fails the whole
// submission with a *scoring.ValidationError, it is never clamped. Entries
// are upserted per evaluator+criterion, so re-submitting revises the
// evaluator's previous scores.
func EvaluateCandidate(ctx context.Context, store db.SuccessionStore, logger *zap.Logger, cycleID, applicationID, evaluatorID string, scores []ScoreInput, now time.Time) (*EvaluationResult, error) {
	if len(scores) == 0 {
		return nil, fmt.Errorf("at least one score is required")
	}

	cycle, err := store.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cycle: %w", err)
	}
	if cycle.Phase != db.PhaseEvaluations {
		return nil, fmt.Errorf("%w: need %s, cycle is in %s", ErrWrongPhase, db.PhaseEvaluations, cycle.Phase)
	}

	criteria, err := store.GetCriteria(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch criteria: %w", err)
	}

	// Validate and compute through the composite calculator before any write
	composite, err := scoring.ComputeComposite(scoringCriteria(criteria), scoringEntries(scores))
	if err != nil {
		return nil, err
	}

	result := &EvaluationResult{
		Entries:   make([]db.EvaluationEntry, 0, len(scores)),
		Composite: composite,
	}

	for _, score := range scores {
		entry := db.EvaluationEntry{
			ID:            uuid.New().String(),
			ApplicationID: applicationID,
			EvaluatorID:   evaluatorID,
			CriterionID:   score.CriterionID,
			RawScore:      score.RawScore,
			Comment:       score.Comment,
			CreatedAt:     now,
		}
		if err := store.UpsertEvaluationEntry(ctx, &entry); err != nil {
			return nil, fmt.Errorf("failed to save score for criterion %s: %w", score.CriterionID, err)
		}
		result.Entries = append(result.Entries, entry)
	}

	logger.Info("Evaluation recorded",
		zap.String("cycle_id", cycleID),
		zap.String("application_id", applicationID),
		zap.String("evaluator_id", evaluatorID),
		zap.Float64("composite", composite.TotalWeightedPercentage))

	return result, nil
}

// scoringCriteria converts stored criteria to the calculator's input type
func scoringCriteria(criteria []db.EvaluationCriterion) []scoring.Criterion {
	converted := make([]scoring.Criterion, 0, len(criteria))
	for _, c := range criteria {
		converted = append(converted, scoring.Criterion{
			ID:       c.ID,
			Label:    c.Label,
			Weight:   c.Weight,
			MaxScore: c.MaxScore,
		})
	}
	return converted
}

func scoringEntries(scores []ScoreInput) []scoring.Entry {
	converted := make([]scoring.Entry, 0, len(scores))
	for _, s := range scores {
		converted = append(converted, scoring.Entry{
			CriterionID: s.CriterionID,
			RawScore:    s.RawScore,
			Comment:     s.Comment,
		})
	}
	return converted
}
