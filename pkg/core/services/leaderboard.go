package services

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/scoring"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// CandidateStanding is one candidate's position on the succession
// leaderboard.
type CandidateStanding struct {
	Rank          int
	MemberID      string
	Name          string
	MeanComposite float64
	Evaluators    int
}

// CandidateLeaderboard ranks a cycle's candidates by their mean composite
// across evaluators.
//
// Composites are always recomputed fresh from the stored entries - they are
// never persisted, so a late or revised evaluation is reflected on the next
// read. Each evaluator's entries produce one composite via the evaluation
// calculator; a candidate's standing is the mean over their evaluators.
// Candidates with no evaluations yet rank last with a mean of 0. Ordering is
// mean descending with ascending member-ID tie-break, matching the
// deterministic ordering of the match rankings.
func CandidateLeaderboard(ctx context.Context, store db.SuccessionStore, members db.MemberStore, logger *zap.Logger, cycleID string) ([]CandidateStanding, error) {
	criteria, err := store.GetCriteria(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch criteria: %w", err)
	}

	applications, err := store.ListApplications(ctx, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}

	calcCriteria := scoringCriteria(criteria)
	standings := make([]CandidateStanding, 0, len(applications))

	for _, application := range applications {
		entries, err := store.ListEvaluationEntries(ctx, application.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to list entries for application %s: %w", application.ID, err)
		}

		// Group entries by evaluator, one composite each
		byEvaluator := make(map[string][]scoring.Entry)
		for _, entry := range entries {
			byEvaluator[entry.EvaluatorID] = append(byEvaluator[entry.EvaluatorID], scoring.Entry{
				CriterionID: entry.CriterionID,
				RawScore:    entry.RawScore,
				Comment:     entry.Comment,
			})
		}

		total := 0.0
		for evaluatorID, evaluatorEntries := range byEvaluator {
			composite, err := scoring.ComputeComposite(calcCriteria, evaluatorEntries)
			if err != nil {
				return nil, fmt.Errorf("failed to compute composite for evaluator %s: %w", evaluatorID, err)
			}
			total += composite.TotalWeightedPercentage
		}

		mean := 0.0
		if len(byEvaluator) > 0 {
			mean = total / float64(len(byEvaluator))
		}

		name := application.MemberID
		if member, err := members.GetMember(ctx, application.MemberID); err == nil {
			name = member.FullName()
		}

		standings = append(standings, CandidateStanding{
			MemberID:      application.MemberID,
			Name:          name,
			MeanComposite: mean,
			Evaluators:    len(byEvaluator),
		})
	}

	sort.Slice(standings, func(i, j int) bool {
		if standings[i].MeanComposite != standings[j].MeanComposite {
			return standings[i].MeanComposite > standings[j].MeanComposite
		}
		return standings[i].MemberID < standings[j].MemberID
	})
	for i := range standings {
		standings[i].Rank = i + 1
	}

	logger.Info("Leaderboard computed",
		zap.String("cycle_id", cycleID),
		zap.Int("candidates", len(standings)))

	return standings, nil
}
