package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// CriterionInput is one evaluation criterion of a new succession cycle.
type CriterionInput struct {
	Label    string
	Weight   float64
	MaxScore float64
}

// CycleResult represents a newly defined succession cycle
type CycleResult struct {
	Cycle    *db.SuccessionCycle
	Criteria []db.EvaluationCriterion
}

// DefineCycle creates a succession cycle for a leadership role together with
// its evaluation criteria. The cycle opens in the nominations phase; phase
// deadlines must be strictly ordered. Criteria are immutable after creation -
// evaluations reference them, so editing one later would silently rewrite
// historical composites.
func DefineCycle(ctx context.Context, store db.SuccessionStore, logger *zap.Logger, roleName string, year int, nominationsClose, applicationsClose, evaluationsClose time.Time, criteria []CriterionInput) (*CycleResult, error) {
	if roleName == "" {
		return nil, fmt.Errorf("role name is required")
	}
	if len(criteria) == 0 {
		return nil, fmt.Errorf("a cycle needs at least one evaluation criterion")
	}
	if !nominationsClose.Before(applicationsClose) || !applicationsClose.Before(evaluationsClose) {
		return nil, fmt.Errorf("phase deadlines must be strictly ordered: nominations < applications < evaluations")
	}

	for i, c := range criteria {
		if c.Label == "" {
			return nil, fmt.Errorf("criterion %d has no label", i)
		}
		if c.Weight < 0 {
			return nil, fmt.Errorf("criterion %q has negative weight %g", c.Label, c.Weight)
		}
		if c.MaxScore <= 0 {
			return nil, fmt.Errorf("criterion %q needs a positive max score, got %g", c.Label, c.MaxScore)
		}
	}

	cycle := &db.SuccessionCycle{
		ID:                uuid.New().String(),
		RoleName:          roleName,
		Year:              year,
		Phase:             db.PhaseNominations,
		NominationsClose:  nominationsClose,
		ApplicationsClose: applicationsClose,
		EvaluationsClose:  evaluationsClose,
		CreatedAt:         time.Now(),
	}

	logger.Info("Defining succession cycle",
		zap.String("cycle_id", cycle.ID),
		zap.String("role", roleName),
		zap.Int("year", year),
		zap.Int("criteria", len(criteria)))

	if err := store.InsertCycle(ctx, cycle); err != nil {
		return nil, fmt.Errorf("failed to insert cycle: %w", err)
	}

	records := make([]db.EvaluationCriterion, 0, len(criteria))
	for i, c := range criteria {
		records = append(records, db.EvaluationCriterion{
			ID:       uuid.New().String(),
			CycleID:  cycle.ID,
			Label:    c.Label,
			Weight:   c.Weight,
			MaxScore: c.MaxScore,
			Position: i,
		})
	}

	if err := store.InsertCriteria(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to insert criteria: %w", err)
	}

	return &CycleResult{Cycle: cycle, Criteria: records}, nil
}
