package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/services"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/wizard"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/metrics"
)

type eventResponse struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	Description     string    `json:"description,omitempty"`
	Category        string    `json:"category"`
	Venue           string    `json:"venue"`
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	Capacity        int       `json:"capacity"`
	RSVPDeadline    time.Time `json:"rsvp_deadline"`
	Status          string    `json:"status"`
	CalendarEventID string    `json:"calendar_event_id,omitempty"`
}

func toEventResponse(e *db.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Category:        e.Category,
		Venue:           e.Venue,
		StartTime:       e.StartTime,
		EndTime:         e.EndTime,
		Capacity:        e.Capacity,
		RSVPDeadline:    e.RSVPDeadline,
		Status:          e.Status,
		CalendarEventID: e.CalendarEventID,
	}
}

// ListEventsHandler lists events, optionally filtered by ?status=
func ListEventsHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		events, err := store.ListEvents(r.Context(), r.URL.Query().Get("status"))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		out := make([]eventResponse, 0, len(events))
		for i := range events {
			out = append(out, toEventResponse(&events[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// GetEventHandler returns a single event by ID
func GetEventHandler(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := store.GetEvent(r.Context(), chi.URLParam(r, "eventID"))
		if errors.Is(err, db.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

type createEventRequest struct {
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	StartTime      time.Time `json:"start_time"`
	EndTime        time.Time `json:"end_time"`
	Venue          string    `json:"venue"`
	VenuePincode   string    `json:"venue_pincode"`
	VenueDistrict  string    `json:"venue_district"`
	VenueState     string    `json:"venue_state"`
	Capacity       int       `json:"capacity"`
	RSVPDeadline   time.Time `json:"rsvp_deadline"`
	RequiredSkills []string  `json:"required_skills"`
	Recurrence     string    `json:"recurrence,omitempty"`
}

// CreateEventHandler creates a draft event, or a series when a recurrence
// rule is supplied
func CreateEventHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createEventRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		form := services.EventForm{
			Title:          req.Title,
			Description:    req.Description,
			Category:       req.Category,
			StartTime:      req.StartTime,
			EndTime:        req.EndTime,
			Venue:          req.Venue,
			VenuePincode:   req.VenuePincode,
			VenueDistrict:  req.VenueDistrict,
			VenueState:     req.VenueState,
			Capacity:       req.Capacity,
			RSVPDeadline:   req.RSVPDeadline,
			RequiredSkills: req.RequiredSkills,
		}

		if req.Recurrence != "" {
			created, err := services.CreateEventSeries(r.Context(), store, logger, form, req.Recurrence)
			if err != nil {
				writeServiceError(w, err)
				return
			}
			out := make([]eventResponse, 0, len(created))
			for _, e := range created {
				metrics.RecordEventCreated()
				out = append(out, toEventResponse(e))
			}
			writeJSON(w, http.StatusCreated, out)
			return
		}

		event, err := services.CreateEvent(r.Context(), store, logger, form)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metrics.RecordEventCreated()
		writeJSON(w, http.StatusCreated, toEventResponse(event))
	}
}

// PublishEventHandler publishes a draft event to the chapter calendar
func PublishEventHandler(store Store, publisher services.CalendarPublisher, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		event, err := services.PublishEvent(r.Context(), store, publisher, logger, chi.URLParam(r, "eventID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metrics.RecordEventPublished()
		writeJSON(w, http.StatusOK, toEventResponse(event))
	}
}

type memberActionRequest struct {
	MemberID string `json:"member_id"`
}

// RSVPHandler records a member's RSVP for an event
func RSVPHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req memberActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		rsvp, err := services.RSVPToEvent(r.Context(), store, store, logger, chi.URLParam(r, "eventID"), req.MemberID, time.Now())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metrics.RecordRSVP(rsvp.Status)
		writeJSON(w, http.StatusOK, map[string]string{
			"rsvp_id": rsvp.ID,
			"status":  rsvp.Status,
		})
	}
}

// CheckInHandler records a member's arrival at an event
func CheckInHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req memberActionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		checkIn, err := services.CheckInMember(r.Context(), store, store, logger, chi.URLParam(r, "eventID"), req.MemberID, time.Now())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metrics.RecordCheckIn()
		writeJSON(w, http.StatusOK, map[string]string{
			"check_in_id":   checkIn.ID,
			"checked_in_at": checkIn.CheckedInAt.Format(time.RFC3339),
		})
	}
}

type feedbackRequest struct {
	MemberID string `json:"member_id"`
	Rating   int    `json:"rating"`
	Comment  string `json:"comment"`
}

// FeedbackHandler records an attendee's post-event feedback
func FeedbackHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req feedbackRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		feedback, err := services.SubmitFeedback(r.Context(), store, store, logger, chi.URLParam(r, "eventID"), req.MemberID, req.Rating, req.Comment, time.Now())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		metrics.RecordFeedback()
		writeJSON(w, http.StatusOK, map[string]string{"feedback_id": feedback.ID})
	}
}

type sessionReportRequest struct {
	AttendeeMemberIDs []string  `json:"attendee_member_ids"`
	ActualStartTime   time.Time `json:"actual_start_time"`
	ActualEndTime     time.Time `json:"actual_end_time"`
	VenueNotes        string    `json:"venue_notes"`
	Highlights        string    `json:"highlights"`
	Issues            string    `json:"issues"`
	PhotoURLs         []string  `json:"photo_urls"`
}

// SessionReportHandler submits the post-session report and closes the event
func SessionReportHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req sessionReportRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		report := services.SessionReport{
			EventID:           chi.URLParam(r, "eventID"),
			AttendeeMemberIDs: req.AttendeeMemberIDs,
			ActualStartTime:   req.ActualStartTime,
			ActualEndTime:     req.ActualEndTime,
			VenueNotes:        req.VenueNotes,
			Highlights:        req.Highlights,
			Issues:            req.Issues,
			PhotoURLs:         req.PhotoURLs,
		}

		result, err := services.SubmitSessionReport(r.Context(), store, store, store, logger, report, time.Now())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"checked_in":      result.CheckedIn,
			"already_present": result.AlreadyPresent,
			"skipped_no_rsvp": result.SkippedNoRSVP,
		})
	}
}

// writeServiceError maps service errors onto HTTP statuses. Validation and
// state errors are client errors; anything unrecognized is a 500.
func writeServiceError(w http.ResponseWriter, err error) {
	var submitErr *wizard.SubmitError
	var sectionErr *wizard.SectionError

	switch {
	case errors.Is(err, db.ErrNotFound):
		writeError(w, http.StatusNotFound, err)
	case errors.As(err, &submitErr), errors.As(err, &sectionErr):
		writeError(w, http.StatusBadRequest, err)
	case errors.Is(err, services.ErrEventNotOpen),
		errors.Is(err, services.ErrRSVPClosed),
		errors.Is(err, services.ErrAlreadyPublished),
		errors.Is(err, services.ErrNotRSVPd),
		errors.Is(err, services.ErrAlreadyCheckedIn),
		errors.Is(err, services.ErrNotAttended),
		errors.Is(err, services.ErrFeedbackExists),
		errors.Is(err, services.ErrWrongPhase),
		errors.Is(err, services.ErrPhaseNotReady),
		errors.Is(err, services.ErrRequestResolved):
		writeError(w, http.StatusConflict, err)
	default:
		writeError(w, http.StatusInternalServerError, err)
	}
}
