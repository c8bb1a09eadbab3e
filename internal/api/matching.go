package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/matching"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/services"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/metrics"
)

type rankedCandidateResponse struct {
	Rank      int                   `json:"rank"`
	MemberID  string                `json:"member_id"`
	Name      string                `json:"name"`
	Composite float64               `json:"composite"`
	Quality   string                `json:"quality"`
	Breakdown []factorScoreResponse `json:"breakdown"`
}

type factorScoreResponse struct {
	Factor  string  `json:"factor"`
	Score   float64 `json:"score"`
	Max     float64 `json:"max"`
	Clamped bool    `json:"clamped,omitempty"`
}

func toRankedCandidates(candidates []services.MatchedCandidate) []rankedCandidateResponse {
	out := make([]rankedCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		breakdown := make([]factorScoreResponse, 0, len(c.Breakdown))
		for _, f := range c.Breakdown {
			breakdown = append(breakdown, factorScoreResponse{
				Factor:  f.Factor,
				Score:   f.Score,
				Max:     f.Max,
				Clamped: f.Clamped,
			})
		}
		out = append(out, rankedCandidateResponse{
			Rank:      c.Rank,
			MemberID:  c.MemberID,
			Name:      c.Name,
			Composite: c.Composite,
			Quality:   string(c.Quality),
			Breakdown: breakdown,
		})
	}
	return out
}

// MatchHandler ranks the candidate pool for an event. role selects the
// volunteer or trainer pool.
func MatchHandler(store Store, logger *zap.Logger, role string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		eventID := chi.URLParam(r, "eventID")

		var outcome *services.MatchOutcome
		var err error
		if role == db.AssignmentRoleTrainer {
			outcome, err = services.MatchTrainers(r.Context(), store, store, logger, eventID, time.Now())
		} else {
			outcome, err = services.MatchVolunteers(r.Context(), store, store, logger, eventID, time.Now())
		}
		if err != nil {
			metrics.RecordMatchError()
			var validationErr *matching.ValidationError
			if errors.As(err, &validationErr) {
				writeError(w, http.StatusUnprocessableEntity, err)
				return
			}
			writeServiceError(w, err)
			return
		}

		metrics.RecordMatchRun(len(outcome.Candidates), float64(time.Since(start).Milliseconds()))
		writeJSON(w, http.StatusOK, map[string]any{
			"event_id":   outcome.EventID,
			"role":       outcome.Role,
			"candidates": toRankedCandidates(outcome.Candidates),
		})
	}
}
