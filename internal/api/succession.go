package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/services"
)

type standingResponse struct {
	Rank          int     `json:"rank"`
	MemberID      string  `json:"member_id"`
	Name          string  `json:"name"`
	MeanComposite float64 `json:"mean_composite"`
	Evaluators    int     `json:"evaluators"`
}

// LeaderboardHandler returns the ranked candidate standings for a cycle
func LeaderboardHandler(store Store, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		standings, err := services.CandidateLeaderboard(r.Context(), store, store, logger, chi.URLParam(r, "cycleID"))
		if err != nil {
			writeServiceError(w, err)
			return
		}

		out := make([]standingResponse, 0, len(standings))
		for _, s := range standings {
			out = append(out, standingResponse{
				Rank:          s.Rank,
				MemberID:      s.MemberID,
				Name:          s.Name,
				MeanComposite: s.MeanComposite,
				Evaluators:    s.Evaluators,
			})
		}
		writeJSON(w, http.StatusOK, out)
	}
}
