package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// MatchVolunteers ranks every chapter member as a volunteer candidate for an
// event. The ranking is advisory - assignments are only written when the
// organizer confirms a selection via ConfirmAssignments.
func MatchVolunteers(ctx context.Context, events db.EventStore, store db.MatchingStore, logger *zap.Logger, eventID string, now time.Time) (*MatchOutcome, error) {
	event, err := events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	pool, err := store.ListMembers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	return matchCandidates(ctx, store, logger, event, pool, db.AssignmentRoleVolunteer, now)
}

// MatchTrainers ranks the chapter's trainers for an event that needs session
// leads. Scoring is identical to volunteer matching; only the candidate pool
// differs.
func MatchTrainers(ctx context.Context, events db.EventStore, store db.MatchingStore, logger *zap.Logger, eventID string, now time.Time) (*MatchOutcome, error) {
	event, err := events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	pool, err := store.ListTrainers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trainers: %w", err)
	}

	return matchCandidates(ctx, store, logger, event, pool, db.AssignmentRoleTrainer, now)
}
