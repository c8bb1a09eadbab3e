package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/wizard"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// SessionReport is the multi-section post-session report form filled in by
// the event coordinator after a session ends.
type SessionReport struct {
	EventID string

	// Attendance
	AttendeeMemberIDs []string

	// Logistics
	ActualStartTime time.Time
	ActualEndTime   time.Time
	VenueNotes      string

	// Feedback
	Highlights string
	Issues     string

	// Evidence
	PhotoURLs []string
}

// Session report wizard section names
const (
	SectionAttendance = "Attendance"
	SectionLogistics  = "Logistics"
	SectionFeedback   = "Feedback"
	SectionEvidence   = "Evidence"
)

// SessionReportSections returns the ordered wizard sections for the
// post-session report.
func SessionReportSections() []wizard.Section[SessionReport] {
	return []wizard.Section[SessionReport]{
		{
			Name: SectionAttendance,
			Validate: func(r SessionReport) []wizard.FieldError {
				var errs []wizard.FieldError
				if len(r.AttendeeMemberIDs) == 0 {
					errs = append(errs, wizard.FieldError{Field: "attendee_member_ids", Message: "at least one attendee is required"})
				}
				seen := make(map[string]bool, len(r.AttendeeMemberIDs))
				for _, id := range r.AttendeeMemberIDs {
					if seen[id] {
						errs = append(errs, wizard.FieldError{Field: "attendee_member_ids", Message: fmt.Sprintf("duplicate attendee %s", id)})
					}
					seen[id] = true
				}
				return errs
			},
		},
		{
			Name: SectionLogistics,
			Validate: func(r SessionReport) []wizard.FieldError {
				var errs []wizard.FieldError
				if r.ActualStartTime.IsZero() {
					errs = append(errs, wizard.FieldError{Field: "actual_start_time", Message: "actual start time is required"})
				}
				if r.ActualEndTime.IsZero() {
					errs = append(errs, wizard.FieldError{Field: "actual_end_time", Message: "actual end time is required"})
				}
				if !r.ActualStartTime.IsZero() && !r.ActualEndTime.IsZero() && !r.ActualEndTime.After(r.ActualStartTime) {
					errs = append(errs, wizard.FieldError{Field: "actual_end_time", Message: "actual end time must be after the actual start time"})
				}
				return errs
			},
		},
		{
			Name: SectionFeedback,
			Validate: func(r SessionReport) []wizard.FieldError {
				var errs []wizard.FieldError
				if strings.TrimSpace(r.Highlights) == "" {
					errs = append(errs, wizard.FieldError{Field: "highlights", Message: "highlights are required"})
				}
				return errs
			},
		},
		{
			// Evidence is optional, URLs just need to be non-blank
			Name: SectionEvidence,
			Validate: func(r SessionReport) []wizard.FieldError {
				var errs []wizard.FieldError
				for i, url := range r.PhotoURLs {
					if strings.TrimSpace(url) == "" {
						errs = append(errs, wizard.FieldError{Field: "photo_urls", Message: fmt.Sprintf("photo URL %d is blank", i+1)})
					}
				}
				return errs
			},
		},
	}
}

// NewSessionReportGate returns a gate over the session report sections,
// positioned at Attendance.
func NewSessionReportGate() (*wizard.Gate[SessionReport], error) {
	return wizard.NewGate(SessionReportSections()...)
}

// SessionReportResult summarises what the report submission recorded
type SessionReportResult struct {
	EventID        string
	CheckedIn      int
	AlreadyPresent int
	SkippedNoRSVP  []string
}

// SubmitSessionReport validates the full report through the wizard gate,
// bulk-records check-ins for the listed attendees and marks the event
// completed. Attendees without a confirmed RSVP are skipped and reported
// back rather than failing the whole submission.
func SubmitSessionReport(ctx context.Context, events db.EventStore, rsvps db.RSVPStore, checkIns db.CheckInStore, logger *zap.Logger, report SessionReport, now time.Time) (*SessionReportResult, error) {
	gate, err := NewSessionReportGate()
	if err != nil {
		return nil, fmt.Errorf("failed to build report gate: %w", err)
	}
	if err := gate.Jump(SectionEvidence); err != nil {
		return nil, fmt.Errorf("failed to position report gate: %w", err)
	}
	if err := gate.Submit(report); err != nil {
		return nil, err
	}

	event, err := events.GetEvent(ctx, report.EventID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch event: %w", err)
	}
	if event.Status != db.EventStatusPublished {
		return nil, ErrEventNotOpen
	}

	result := &SessionReportResult{EventID: report.EventID}
	for _, memberID := range report.AttendeeMemberIDs {
		_, err := CheckInMember(ctx, rsvps, checkIns, logger, report.EventID, memberID, now)
		switch {
		case errors.Is(err, ErrAlreadyCheckedIn):
			result.AlreadyPresent++
		case errors.Is(err, ErrNotRSVPd):
			result.SkippedNoRSVP = append(result.SkippedNoRSVP, memberID)
		case err != nil:
			return nil, fmt.Errorf("failed to check in member %s: %w", memberID, err)
		default:
			result.CheckedIn++
		}
	}

	if err := events.UpdateEventStatus(ctx, report.EventID, db.EventStatusCompleted); err != nil {
		return nil, fmt.Errorf("failed to mark event completed: %w", err)
	}

	logger.Info("session report submitted",
		zap.String("event_id", report.EventID),
		zap.Int("checked_in", result.CheckedIn),
		zap.Int("already_present", result.AlreadyPresent),
		zap.Int("skipped_no_rsvp", len(result.SkippedNoRSVP)))

	return result, nil
}
