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
	// ErrWrongPhase indicates the cycle is not in the phase the operation needs
	ErrWrongPhase = errors.New("cycle is not in the required phase")

	// ErrAlreadyNominated indicates the nominator has used their nomination
	ErrAlreadyNominated = errors.New("member has already nominated someone in this cycle")

	// ErrSelfNomination indicates a member tried to nominate themselves
	ErrSelfNomination = errors.New("members cannot nominate themselves")
)

// Nominate records one member's nomination of another for a succession cycle.
// Each member gets one nomination per cycle, during the nominations phase
// only.
func Nominate(ctx context.Context, store db.SuccessionStore, members db.MemberStore, logger *zap.Logger, cycleID, nominatorID, nomineeID, reason string, now time.Time) (*db.Nomination, error) {
	if nominatorID == nomineeID {
		return nil, ErrSelfNomination
	}

	cycle, err := store.GetCycle(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch cycle: %w", err)
	}
	if cycle.Phase != db.PhaseNominations {
		return nil, fmt.Errorf("%w: need %s, cycle is in %s", ErrWrongPhase, db.PhaseNominations, cycle.Phase)
	}
	if now.After(cycle.NominationsClose) {
		return nil, fmt.Errorf("nominations closed at %s", cycle.NominationsClose.Format(time.RFC3339))
	}

	// Both parties must be current members
	if _, err := members.GetMember(ctx, nominatorID); err != nil {
		return nil, fmt.Errorf("failed to fetch nominator: %w", err)
	}
	if _, err := members.GetMember(ctx, nomineeID); err != nil {
		return nil, fmt.Errorf("failed to fetch nominee: %w", err)
	}

	used, err := store.HasNominated(ctx, cycleID, nominatorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check prior nomination: %w", err)
	}
	if used {
		return nil, ErrAlreadyNominated
	}

	nomination := &db.Nomination{
		ID:          uuid.New().String(),
		CycleID:     cycleID,
		NominatorID: nominatorID,
		NomineeID:   nomineeID,
		Reason:      reason,
		CreatedAt:   now,
	}

	if err := store.InsertNomination(ctx, nomination); err != nil {
		return nil, fmt.Errorf("failed to insert nomination: %w", err)
	}

	logger.Info("Nomination recorded",
		zap.String("cycle_id", cycleID),
		zap.String("nominator_id", nominatorID),
		zap.String("nominee_id", nomineeID))

	return nomination, nil
}
