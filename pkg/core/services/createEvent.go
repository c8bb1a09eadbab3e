package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/teambition/rrule-go"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// CreateEvent validates the completed event form against every wizard
// section and inserts the event in draft status.
//
// Validation runs through the same gate the UI uses, so a form that skipped
// sections via tab jumps still has every section checked here.
func CreateEvent(ctx context.Context, events db.EventStore, logger *zap.Logger, form EventForm) (*db.Event, error) {
	gate, err := NewEventFormGate()
	if err != nil {
		return nil, fmt.Errorf("failed to build event form gate: %w", err)
	}

	// Submit re-validates all sections; jump straight to the last one
	if err := gate.Jump(SectionSettings); err != nil {
		return nil, fmt.Errorf("failed to position form gate: %w", err)
	}
	if err := gate.Submit(form); err != nil {
		return nil, fmt.Errorf("event form is invalid: %w", err)
	}

	event := eventFromForm(form, time.Now())

	logger.Info("Creating event",
		zap.String("event_id", event.ID),
		zap.String("title", event.Title),
		zap.Time("start_time", event.StartTime))

	if err := events.InsertEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to insert event: %w", err)
	}

	return event, nil
}

// Bounds on a single series expansion. Open-ended rules (no COUNT or UNTIL)
// are expanded up to the horizon only; either bound caps how many draft
// events one call can insert.
const (
	seriesHorizon        = 365 * 24 * time.Hour
	seriesMaxOccurrences = 52
)

// CreateEventSeries creates one draft event per occurrence of a recurrence
// rule, keeping each occurrence's duration and relative RSVP deadline equal
// to the form's. The rule is an RFC 5545 RRULE string (e.g.
// "FREQ=WEEKLY;COUNT=4"); occurrences are generated from the form's start
// time, within a year of it and capped at 52 per series.
func CreateEventSeries(ctx context.Context, events db.EventStore, logger *zap.Logger, form EventForm, recurrence string) ([]*db.Event, error) {
	rule, err := rrule.StrToRRule(recurrence)
	if err != nil {
		return nil, fmt.Errorf("invalid recurrence rule: %w", err)
	}

	gate, err := NewEventFormGate()
	if err != nil {
		return nil, fmt.Errorf("failed to build event form gate: %w", err)
	}
	if err := gate.Jump(SectionSettings); err != nil {
		return nil, fmt.Errorf("failed to position form gate: %w", err)
	}
	if err := gate.Submit(form); err != nil {
		return nil, fmt.Errorf("event form is invalid: %w", err)
	}

	rule.DTStart(form.StartTime)
	occurrences := rule.Between(form.StartTime, form.StartTime.Add(seriesHorizon), true)
	if len(occurrences) == 0 {
		return nil, fmt.Errorf("recurrence rule %q yields no occurrences", recurrence)
	}
	if len(occurrences) > seriesMaxOccurrences {
		occurrences = occurrences[:seriesMaxOccurrences]
		logger.Warn("Recurrence rule truncated",
			zap.String("recurrence", recurrence),
			zap.Int("kept", seriesMaxOccurrences))
	}

	duration := form.EndTime.Sub(form.StartTime)
	deadlineLead := form.StartTime.Sub(form.RSVPDeadline)
	now := time.Now()

	logger.Info("Creating event series",
		zap.String("title", form.Title),
		zap.String("recurrence", recurrence),
		zap.Int("occurrences", len(occurrences)))

	created := make([]*db.Event, 0, len(occurrences))
	for _, start := range occurrences {
		occurrence := form
		occurrence.StartTime = start
		occurrence.EndTime = start.Add(duration)
		occurrence.RSVPDeadline = start.Add(-deadlineLead)

		event := eventFromForm(occurrence, now)
		if err := events.InsertEvent(ctx, event); err != nil {
			return nil, fmt.Errorf("failed to insert occurrence starting %s: %w",
				start.Format("2006-01-02"), err)
		}
		created = append(created, event)
	}

	logger.Info("Event series created", zap.Int("count", len(created)))

	return created, nil
}

func eventFromForm(form EventForm, now time.Time) *db.Event {
	return &db.Event{
		ID:             uuid.New().String(),
		Title:          form.Title,
		Description:    form.Description,
		Category:       form.Category,
		Venue:          form.Venue,
		VenuePincode:   form.VenuePincode,
		VenueDistrict:  form.VenueDistrict,
		VenueState:     form.VenueState,
		StartTime:      form.StartTime,
		EndTime:        form.EndTime,
		Capacity:       form.Capacity,
		RSVPDeadline:   form.RSVPDeadline,
		RequiredSkills: form.RequiredSkills,
		Status:         db.EventStatusDraft,
		CreatedAt:      now,
	}
}
