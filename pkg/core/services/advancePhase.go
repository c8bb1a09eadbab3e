package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// ErrPhaseNotReady indicates the current phase's deadline has not passed yet
var ErrPhaseNotReady = errors.New("current phase has not closed yet")

// nextPhase maps each phase to its successor. Announcement is terminal.
var nextPhase = map[string]string{
	db.PhaseNominations:  db.PhaseApplications,
	db.PhaseApplications: db.PhaseEvaluations,
	db.PhaseEvaluations:  db.PhaseAnnouncement,
}

// AdvancePhase moves a succession cycle to its next phase. Transitions are
// strictly sequential and date-gated: a phase can only be left once its
// deadline has passed.
func AdvancePhase(ctx context.Context, store db.SuccessionStore, logger *zap.Logger, cycleID string, now time.Time) (*db.SuccessionCycle, error) {
	cycle, err := store.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cycle: %w", err)
	}

	next, ok := nextPhase[cycle.Phase]
	if !ok {
		return nil, fmt.Errorf("cycle is already in its final phase (%s)", cycle.Phase)
	}

	var deadline time.Time
	switch cycle.Phase {
	case db.PhaseNominations:
		deadline = cycle.NominationsClose
	case db.PhaseApplications:
		deadline = cycle.ApplicationsClose
	case db.PhaseEvaluations:
		deadline = cycle.EvaluationsClose
	}
	if now.Before(deadline) {
		return nil, fmt.Errorf("%w: %s closes at %s", ErrPhaseNotReady, cycle.Phase, deadline.Format(time.RFC3339))
	}

	if err := store.UpdateCyclePhase(ctx, cycleID, next); err != nil {
		return nil, fmt.Errorf("failed to update phase: %w", err)
	}

	logger.Info("Succession cycle advanced",
		zap.String("cycle_id", cycleID),
		zap.String("from", cycle.Phase),
		zap.String("to", next))

	cycle.Phase = next
	return cycle, nil
}
