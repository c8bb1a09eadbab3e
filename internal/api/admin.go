package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/services"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

type requestResponse struct {
	ID         string     `json:"id"`
	MemberID   string     `json:"member_id"`
	Type       string     `json:"type"`
	Details    string     `json:"details,omitempty"`
	Status     string     `json:"status"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

func toRequestResponse(r *db.MemberRequest) requestResponse {
	return requestResponse{
		ID:         r.ID,
		MemberID:   r.MemberID,
		Type:       r.Type,
		Details:    r.Details,
		Status:     r.Status,
		Note:       r.Note,
		CreatedAt:  r.CreatedAt,
		ResolvedAt: r.ResolvedAt,
	}
}

// ListRequestsHandler lists member requests, defaulting to the open queue.
// ?status=all returns everything.
func ListRequestsHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := r.URL.Query().Get("status")

		var requests []db.MemberRequest
		var err error
		switch status {
		case "", db.RequestStatusOpen:
			requests, err = services.OpenRequests(r.Context(), store, logger)
		case "all":
			requests, err = store.ListRequests(r.Context(), "")
		default:
			requests, err = store.ListRequests(r.Context(), status)
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		out := make([]requestResponse, 0, len(requests))
		for i := range requests {
			out = append(out, toRequestResponse(&requests[i]))
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type submitRequestRequest struct {
	MemberID string `json:"member_id"`
	Type     string `json:"type"`
	Details  string `json:"details"`
}

// SubmitRequestHandler records a new member request
func SubmitRequestHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req submitRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}

		request, err := services.SubmitRequest(r.Context(), store, logger, req.MemberID, req.Type, req.Details)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, toRequestResponse(request))
	}
}

type resolveRequestRequest struct {
	Status string `json:"status"`
	Note   string `json:"note"`
}

// ResolveRequestHandler approves or rejects an open member request
func ResolveRequestHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resolveRequestRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		if req.Status != db.RequestStatusApproved && req.Status != db.RequestStatusRejected {
			writeError(w, http.StatusBadRequest, errors.New("status must be approved or rejected"))
			return
		}

		err := services.ResolveRequest(r.Context(), store, logger, chi.URLParam(r, "requestID"), req.Status, req.Note, time.Now())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

type programProgressResponse struct {
	ProgramID       string  `json:"program_id"`
	ProgramName     string  `json:"program_name"`
	Chapter         string  `json:"chapter"`
	TargetCount     int     `json:"target_count"`
	Issued          int     `json:"issued"`
	Pending         int     `json:"pending"`
	PercentOfTarget float64 `json:"percent_of_target"`
}

// HealthCardStatsHandler returns per-program health card progress
func HealthCardStatsHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		progress, err := services.HealthCardDashboard(r.Context(), store, logger)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}

		out := make([]programProgressResponse, 0, len(progress))
		for _, p := range progress {
			out = append(out, programProgressResponse{
				ProgramID:       p.ProgramID,
				ProgramName:     p.ProgramName,
				Chapter:         p.Chapter,
				TargetCount:     p.TargetCount,
				Issued:          p.Issued,
				Pending:         p.Pending,
				PercentOfTarget: p.PercentOfTarget,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
