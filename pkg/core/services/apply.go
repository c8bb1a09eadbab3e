package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

var (
	// ErrNotNominated indicates the applicant has no nomination in this cycle
	ErrNotNominated = errors.New("only nominated members can apply")

	// ErrAlreadyApplied indicates the member already submitted an application
	ErrAlreadyApplied = errors.New("application already submitted for this cycle")
)

// SubmitApplication records a nominee's application for a succession cycle.
// Applications are accepted during the applications phase, from nominated
// members only, one per member.
func SubmitApplication(ctx context.Context, store db.SuccessionStore, logger *zap.Logger, cycleID, memberID, statement string, now time.Time) (*db.Application, error) {
	cycle, err := store.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cycle: %w", err)
	}
	if cycle.Phase != db.PhaseApplications {
		return nil, fmt.Errorf("%w: need %s, cycle is in %s", ErrWrongPhase, db.PhaseApplications, cycle.Phase)
	}
	if now.After(cycle.ApplicationsClose) {
		return nil, fmt.Errorf("applications closed at %s", cycle.ApplicationsClose.Format(time.RFC3339))
	}

	nominated, err := store.HasNomination(ctx, cycleID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check nomination: %w", err)
	}
	if !nominated {
		return nil, ErrNotNominated
	}

	existing, err := store.GetApplication(ctx, cycleID, memberID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing application: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyApplied
	}

	application := &db.Application{
		ID:          uuid.New().String(),
		CycleID:     cycleID,
		MemberID:    memberID,
		Statement:   statement,
		SubmittedAt: now,
	}

	if err := store.InsertApplication(ctx, application); err != nil {
		return nil, fmt.Errorf("failed to insert application: %w", err)
	}

	logger.Info("Application submitted",
		zap.String("cycle_id", cycleID),
		zap.String("member_id", memberID))

	return application, nil
}
