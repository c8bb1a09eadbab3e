package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/scoring"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

func seedEvaluationCycle(store *fakeSuccessionStore) {
	seedCycle(store, db.PhaseEvaluations)
	store.criteria["cycle-1"] = []db.EvaluationCriterion{
		{ID: "c-lead", CycleID: "cycle-1", Label: "Leadership", Weight: 2, MaxScore: 10, Position: 0},
		{ID: "c-init", CycleID: "cycle-1", Label: "Initiative", Weight: 3, MaxScore: 20, Position: 1},
	}
}

func TestEvaluateCandidate_ComputesComposite(t *testing.T) {
	store := newFakeSuccessionStore()
	seedEvaluationCycle(store)

	result, err := EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-1", []ScoreInput{
		{CriterionID: "c-lead", RawScore: 8},
		{CriterionID: "c-init", RawScore: 10, Comment: "started two programs"},
	}, time.Now())
	require.NoError(t, err)

	// Leadership: 8/10 = 80 normalized, weight share 2/5 = 0.4, contributes 32.
	// Initiative: 10/20 = 50 normalized, weight share 3/5 = 0.6, contributes 30.
	assert.InDelta(t, 62.0, result.Composite.TotalWeightedPercentage, 0.001)
	require.Len(t, result.Entries, 2)
	assert.Equal(t, "eval-1", result.Entries[0].EvaluatorID)
	assert.Len(t, store.entries["app-1"], 2)
}

func TestEvaluateCandidate_OutOfRangeScoreWritesNothing(t *testing.T) {
	store := newFakeSuccessionStore()
	seedEvaluationCycle(store)

	_, err := EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-1", []ScoreInput{
		{CriterionID: "c-lead", RawScore: 8},
		{CriterionID: "c-init", RawScore: 25},
	}, time.Now())
	require.Error(t, err)

	var validationErr *scoring.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "c-init", validationErr.CriterionID)
	assert.Empty(t, store.entries["app-1"])
}

func TestEvaluateCandidate_UnknownCriterion(t *testing.T) {
	store := newFakeSuccessionStore()
	seedEvaluationCycle(store)

	_, err := EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-1", []ScoreInput{
		{CriterionID: "c-ghost", RawScore: 5},
	}, time.Now())

	var validationErr *scoring.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestEvaluateCandidate_ResubmissionRevises(t *testing.T) {
	store := newFakeSuccessionStore()
	seedEvaluationCycle(store)
	now := time.Now()

	_, err := EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-1", []ScoreInput{
		{CriterionID: "c-lead", RawScore: 4},
	}, now)
	require.NoError(t, err)

	_, err = EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-1", []ScoreInput{
		{CriterionID: "c-lead", RawScore: 9},
	}, now)
	require.NoError(t, err)

	// The revised score replaces the old one rather than stacking
	entries := store.entries["app-1"]
	require.Len(t, entries, 1)
	assert.InDelta(t, 9, entries[0].RawScore, 0.001)
}

func TestEvaluateCandidate_EvaluatorsScoreIndependently(t *testing.T) {
	store := newFakeSuccessionStore()
	seedEvaluationCycle(store)
	now := time.Now()

	_, err := EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-1", []ScoreInput{
		{CriterionID: "c-lead", RawScore: 4},
	}, now)
	require.NoError(t, err)

	_, err = EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-2", []ScoreInput{
		{CriterionID: "c-lead", RawScore: 9},
	}, now)
	require.NoError(t, err)

	assert.Len(t, store.entries["app-1"], 2)
}

func TestEvaluateCandidate_WrongPhase(t *testing.T) {
	store := newFakeSuccessionStore()
	seedCycle(store, db.PhaseApplications)

	_, err := EvaluateCandidate(context.Background(), store, zap.NewNop(), "cycle-1", "app-1", "eval-1", []ScoreInput{
		{CriterionID: "c-lead", RawScore: 5},
	}, time.Now())
	assert.ErrorIs(t, err, ErrWrongPhase)
}

func TestEvaluateCandidate_RequiresScores(t *testing.T) {
	_, err := EvaluateCandidate(context.Background(), newFakeSuccessionStore(), zap.NewNop(), "cycle-1", "app-1", "eval-1", nil, time.Now())
	assert.Error(t, err)
}
