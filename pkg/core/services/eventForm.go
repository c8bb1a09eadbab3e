package services

import (
	"strings"
	"time"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/wizard"
)

// EventForm is the multi-section event creation form. The field layout
// mirrors the four tabs of the event wizard: Basic, Schedule, Venue and
// Settings.
type EventForm struct {
	// Basic
	Title       string
	Description string
	Category    string

	// Schedule
	StartTime time.Time
	EndTime   time.Time

	// Venue
	Venue         string
	VenuePincode  string
	VenueDistrict string
	VenueState    string

	// Settings
	Capacity       int
	RSVPDeadline   time.Time
	RequiredSkills []string
}

// Event wizard section names
const (
	SectionBasic    = "Basic"
	SectionSchedule = "Schedule"
	SectionVenue    = "Venue"
	SectionSettings = "Settings"
)

// EventFormSections returns the ordered wizard sections for event creation.
// Each section validates only its own required fields.
func EventFormSections() []wizard.Section[EventForm] {
	return []wizard.Section[EventForm]{
		{
			Name: SectionBasic,
			Validate: func(f EventForm) []wizard.FieldError {
				var errs []wizard.FieldError
				if strings.TrimSpace(f.Title) == "" {
					errs = append(errs, wizard.FieldError{Field: "title", Message: "title is required"})
				}
				if strings.TrimSpace(f.Category) == "" {
					errs = append(errs, wizard.FieldError{Field: "category", Message: "category is required"})
				}
				return errs
			},
		},
		{
			Name: SectionSchedule,
			Validate: func(f EventForm) []wizard.FieldError {
				var errs []wizard.FieldError
				if f.StartTime.IsZero() {
					errs = append(errs, wizard.FieldError{Field: "start_time", Message: "start time is required"})
				}
				if f.EndTime.IsZero() {
					errs = append(errs, wizard.FieldError{Field: "end_time", Message: "end time is required"})
				}
				if !f.StartTime.IsZero() && !f.EndTime.IsZero() && !f.EndTime.After(f.StartTime) {
					errs = append(errs, wizard.FieldError{Field: "end_time", Message: "end time must be after start time"})
				}
				return errs
			},
		},
		{
			Name: SectionVenue,
			Validate: func(f EventForm) []wizard.FieldError {
				var errs []wizard.FieldError
				if strings.TrimSpace(f.Venue) == "" {
					errs = append(errs, wizard.FieldError{Field: "venue", Message: "venue is required"})
				}
				return errs
			},
		},
		{
			Name: SectionSettings,
			Validate: func(f EventForm) []wizard.FieldError {
				var errs []wizard.FieldError
				if f.Capacity <= 0 {
					errs = append(errs, wizard.FieldError{Field: "capacity", Message: "capacity must be positive"})
				}
				if f.RSVPDeadline.IsZero() {
					errs = append(errs, wizard.FieldError{Field: "rsvp_deadline", Message: "RSVP deadline is required"})
				} else if !f.StartTime.IsZero() && f.RSVPDeadline.After(f.StartTime) {
					errs = append(errs, wizard.FieldError{Field: "rsvp_deadline", Message: "RSVP deadline must not be after the event starts"})
				}
				return errs
			},
		},
	}
}

// NewEventFormGate returns a gate over the event creation sections,
// positioned at Basic.
func NewEventFormGate() (*wizard.Gate[EventForm], error) {
	return wizard.NewGate(EventFormSections()...)
}
