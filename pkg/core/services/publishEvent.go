package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// ErrAlreadyPublished indicates the event is no longer a draft
var ErrAlreadyPublished = errors.New("event is already published")

// CalendarPublisher pushes events onto the chapter calendar
type CalendarPublisher interface {
	PublishEvent(ctx context.Context, event *db.Event) (string, error)
}

// PublishEvent moves a draft event to published and pushes it to the chapter
// calendar. The calendar event ID is stored on the event so the entry can be
// removed later. A nil publisher skips the calendar push, which keeps the
// operation usable without Google credentials.
func PublishEvent(ctx context.Context, events db.EventStore, publisher CalendarPublisher, logger *zap.Logger, eventID string) (*db.Event, error) {
	event, err := events.GetEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}

	if event.Status != db.EventStatusDraft {
		return nil, ErrAlreadyPublished
	}

	if publisher != nil {
		calendarEventID, err := publisher.PublishEvent(ctx, event)
		if err != nil {
			return nil, fmt.Errorf("failed to publish to calendar: %w", err)
		}

		if err := events.SetCalendarEventID(ctx, eventID, calendarEventID); err != nil {
			return nil, fmt.Errorf("failed to store calendar event ID: %w", err)
		}
		event.CalendarEventID = calendarEventID
	}

	if err := events.UpdateEventStatus(ctx, eventID, db.EventStatusPublished); err != nil {
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}
	event.Status = db.EventStatusPublished

	logger.Info("event published",
		zap.String("event_id", eventID),
		zap.String("title", event.Title),
		zap.String("calendar_event_id", event.CalendarEventID))

	return event, nil
}
