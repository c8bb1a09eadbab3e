package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/matching"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// MatchedCandidate is one ranked candidate for an event, enriched with the
// member's name and the advisory quality label for display.
type MatchedCandidate struct {
	Rank      int
	MemberID  string
	Name      string
	Composite float64
	Quality   matching.Quality
	Breakdown []matching.FactorScore
}

// MatchOutcome is the ranked candidate list for one event.
type MatchOutcome struct {
	EventID    string
	Role       string
	Candidates []MatchedCandidate
}

// matchCandidates scores and ranks a candidate pool against an event. The
// four factor scores are assembled from store data through the bounded
// heuristics in pkg/core/matching, then summed and ordered by the ranking
// calculator. Clamped factors are logged as anomalies - they indicate a
// heuristic produced an out-of-range value.
func matchCandidates(ctx context.Context, store db.MatchingStore, logger *zap.Logger, event *db.Event, pool []db.Member, role string, now time.Time) (*MatchOutcome, error) {
	venue := matching.Location{
		Pincode:  event.VenuePincode,
		District: event.VenueDistrict,
		State:    event.VenueState,
	}

	names := make(map[string]string, len(pool))
	candidates := make([]matching.Candidate, 0, len(pool))

	for _, member := range pool {
		names[member.ID] = member.FullName()

		history, err := store.GetMemberAssignmentHistory(ctx, member.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch assignment history for %s: %w", member.ID, err)
		}

		performance, err := store.GetMemberPerformance(ctx, member.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch performance for %s: %w", member.ID, err)
		}

		candidates = append(candidates, matching.Candidate{
			ID: member.ID,
			Factors: map[string]float64{
				matching.FactorLocation: matching.LocationScore(matching.Location{
					Pincode:  member.Pincode,
					District: member.District,
					State:    member.State,
				}, venue),
				matching.FactorDistribution: matching.DistributionScore(matching.AssignmentHistory{
					LastAssignedAt:   history.LastAssignedAt,
					TotalAssignments: history.TotalAssignments,
				}, now),
				matching.FactorPerformance: matching.PerformanceScore(performance.AverageRating, performance.RatedEvents),
				matching.FactorEngagement:  matching.EngagementScore(member.Skills, event.RequiredSkills),
			},
		})
	}

	ranked, err := matching.Rank(candidates, matching.DefaultMaxima())
	if err != nil {
		return nil, fmt.Errorf("failed to rank candidates: %w", err)
	}

	outcome := &MatchOutcome{
		EventID:    event.ID,
		Role:       role,
		Candidates: make([]MatchedCandidate, 0, len(ranked)),
	}

	for _, result := range ranked {
		for _, fs := range result.Breakdown {
			if fs.Clamped {
				logger.Warn("Factor score clamped",
					zap.String("event_id", event.ID),
					zap.String("member_id", result.CandidateID),
					zap.String("factor", fs.Factor),
					zap.Float64("max", fs.Max))
			}
		}

		outcome.Candidates = append(outcome.Candidates, MatchedCandidate{
			Rank:      result.Rank,
			MemberID:  result.CandidateID,
			Name:      names[result.CandidateID],
			Composite: result.Composite,
			Quality:   matching.QualityFor(result.Composite),
			Breakdown: result.Breakdown,
		})
	}

	logger.Info("Candidates ranked",
		zap.String("event_id", event.ID),
		zap.String("role", role),
		zap.Int("pool_size", len(pool)))

	return outcome, nil
}

// ConfirmAssignments persists the top n ranked candidates as assignments for
// the event.
func ConfirmAssignments(ctx context.Context, assignments db.AssignmentStore, logger *zap.Logger, outcome *MatchOutcome, n int, now time.Time) ([]db.Assignment, error) {
	if n <= 0 {
		return nil, fmt.Errorf("assignment count must be positive, got %d", n)
	}
	if n > len(outcome.Candidates) {
		n = len(outcome.Candidates)
	}

	records := make([]db.Assignment, 0, n)
	for _, candidate := range outcome.Candidates[:n] {
		records = append(records, db.Assignment{
			ID:             uuid.New().String(),
			EventID:        outcome.EventID,
			MemberID:       candidate.MemberID,
			Role:           outcome.Role,
			CompositeScore: candidate.Composite,
			AssignedAt:     now,
		})
	}

	if err := assignments.InsertAssignments(ctx, records); err != nil {
		return nil, fmt.Errorf("failed to insert assignments: %w", err)
	}

	logger.Info("Assignments confirmed",
		zap.String("event_id", outcome.EventID),
		zap.String("role", outcome.Role),
		zap.Int("count", len(records)))

	return records, nil
}
