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
	// ErrNotAttended indicates the member never checked in to the event
	ErrNotAttended = errors.New("member did not attend this event")

	// ErrFeedbackExists indicates the member already left feedback
	ErrFeedbackExists = errors.New("feedback already submitted for this event")
)

// SubmitFeedback records one attendee's rating and comment for an event.
// Only checked-in members can leave feedback, one entry per event.
func SubmitFeedback(ctx context.Context, checkIns db.CheckInStore, feedback db.FeedbackStore, logger *zap.Logger, eventID, memberID string, rating int, comment string, now time.Time) (*db.Feedback, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("rating must be between 1 and 5, got %d", rating)
	}

	attended, err := checkIns.HasCheckedIn(ctx, eventID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check attendance: %w", err)
	}
	if !attended {
		return nil, ErrNotAttended
	}

	exists, err := feedback.HasFeedback(ctx, eventID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing feedback: %w", err)
	}
	if exists {
		return nil, ErrFeedbackExists
	}

	entry := &db.Feedback{
		ID:        uuid.New().String(),
		EventID:   eventID,
		MemberID:  memberID,
		Rating:    rating,
		Comment:   comment,
		CreatedAt: now,
	}

	if err := feedback.InsertFeedback(ctx, entry); err != nil {
		return nil, fmt.Errorf("failed to insert feedback: %w", err)
	}

	logger.Info("Feedback recorded",
		zap.String("event_id", eventID),
		zap.String("member_id", memberID),
		zap.Int("rating", rating))

	return entry, nil
}
