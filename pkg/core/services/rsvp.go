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
	// ErrRSVPClosed indicates the event's RSVP deadline has passed
	ErrRSVPClosed = errors.New("RSVP deadline has passed")

	// ErrEventNotOpen indicates the event is not accepting responses
	ErrEventNotOpen = errors.New("event is not published")
)

// RSVPToEvent records a member's RSVP for a published event.
//
// Responses are idempotent per member: repeating a confirmed RSVP returns the
// existing record unchanged. Once confirmed responses reach the event's
// capacity, further members are waitlisted. A cancelled member may re-RSVP
// and is treated like a new response.
func RSVPToEvent(ctx context.Context, events db.EventStore, rsvps db.RSVPStore, logger *zap.Logger, eventID, memberID string, now time.Time) (*db.RSVP, error) {
	event, err := events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	if event.Status != db.EventStatusPublished {
		return nil, ErrEventNotOpen
	}
	if now.After(event.RSVPDeadline) {
		return nil, ErrRSVPClosed
	}

	// Idempotence: an existing non-cancelled response stands
	existing, err := rsvps.GetRSVP(ctx, eventID, memberID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		return nil, fmt.Errorf("failed to fetch existing RSVP: %w", err)
	}
	if existing != nil && existing.Status != db.RSVPStatusCancelled {
		logger.Debug("RSVP already recorded",
			zap.String("event_id", eventID),
			zap.String("member_id", memberID),
			zap.String("status", existing.Status))
		return existing, nil
	}

	confirmed, err := rsvps.CountConfirmedRSVPs(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to count confirmed RSVPs: %w", err)
	}

	status := db.RSVPStatusConfirmed
	if confirmed >= event.Capacity {
		status = db.RSVPStatusWaitlisted
	}

	rsvp := &db.RSVP{
		ID:        uuid.New().String(),
		EventID:   eventID,
		MemberID:  memberID,
		Status:    status,
		CreatedAt: now,
	}
	if existing != nil {
		// Re-RSVP after cancelling keeps the original row
		rsvp.ID = existing.ID
	}

	if err := rsvps.UpsertRSVP(ctx, rsvp); err != nil {
		return nil, fmt.Errorf("failed to save RSVP: %w", err)
	}

	logger.Info("RSVP recorded",
		zap.String("event_id", eventID),
		zap.String("member_id", memberID),
		zap.String("status", status),
		zap.Int("confirmed_before", confirmed),
		zap.Int("capacity", event.Capacity))

	return rsvp, nil
}

// CancelRSVP marks a member's RSVP as cancelled. Cancelling frees a confirmed
// spot for the next RSVP; the waitlist is not auto-promoted.
func CancelRSVP(ctx context.Context, rsvps db.RSVPStore, logger *zap.Logger, eventID, memberID string) error {
	existing, err := rsvps.GetRSVP(ctx, eventID, memberID)
	if err != nil {
		return fmt.Errorf("failed to fetch RSVP: %w", err)
	}

	existing.Status = db.RSVPStatusCancelled
	if err := rsvps.UpsertRSVP(ctx, existing); err != nil {
		return fmt.Errorf("failed to cancel RSVP: %w", err)
	}

	logger.Info("RSVP cancelled",
		zap.String("event_id", eventID),
		zap.String("member_id", memberID))

	return nil
}
