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
	// ErrNotRSVPd indicates the member has no confirmed RSVP for the event
	ErrNotRSVPd = errors.New("member has no confirmed RSVP for this event")

	// ErrAlreadyCheckedIn indicates a duplicate check-in attempt
	ErrAlreadyCheckedIn = errors.New("member is already checked in")
)

// CheckInMember records a member's arrival at an event. Only members with a
// confirmed RSVP can check in, and only once.
func CheckInMember(ctx context.Context, rsvps db.RSVPStore, checkIns db.CheckInStore, logger *zap.Logger, eventID, memberID string, now time.Time) (*db.CheckIn, error) {
	rsvp, err := rsvps.GetRSVP(ctx, eventID, memberID)
	if errors.Is(err, db.ErrNotFound) {
		return nil, ErrNotRSVPd
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch RSVP: %w", err)
	}
	if rsvp.Status != db.RSVPStatusConfirmed {
		return nil, ErrNotRSVPd
	}

	already, err := checkIns.HasCheckedIn(ctx, eventID, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing check-in: %w", err)
	}
	if already {
		return nil, ErrAlreadyCheckedIn
	}

	checkIn := &db.CheckIn{
		ID:          uuid.New().String(),
		EventID:     eventID,
		MemberID:    memberID,
		CheckedInAt: now,
	}

	if err := checkIns.InsertCheckIn(ctx, checkIn); err != nil {
		return nil, fmt.Errorf("failed to insert check-in: %w", err)
	}

	logger.Info("Member checked in",
		zap.String("event_id", eventID),
		zap.String("member_id", memberID),
		zap.Time("checked_in_at", now))

	return checkIn, nil
}
