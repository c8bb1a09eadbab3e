package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

func cycleDeadlines() (time.Time, time.Time, time.Time) {
	base := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	return base, base.AddDate(0, 1, 0), base.AddDate(0, 2, 0)
}

func TestDefineCycle_CreatesCycleWithCriteria(t *testing.T) {
	store := newFakeSuccessionStore()
	nominations, applications, evaluations := cycleDeadlines()

	result, err := DefineCycle(context.Background(), store, zap.NewNop(), "Chapter Chair", 2027, nominations, applications, evaluations, []CriterionInput{
		{Label: "Leadership", Weight: 3, MaxScore: 10},
		{Label: "Initiative", Weight: 2, MaxScore: 10},
	})
	require.NoError(t, err)

	assert.Equal(t, db.PhaseNominations, result.Cycle.Phase)
	assert.Equal(t, "Chapter Chair", result.Cycle.RoleName)
	assert.Equal(t, 2027, result.Cycle.Year)
	require.Len(t, result.Criteria, 2)
	assert.Equal(t, 0, result.Criteria[0].Position)
	assert.Equal(t, 1, result.Criteria[1].Position)
	assert.Equal(t, result.Cycle.ID, result.Criteria[0].CycleID)
	assert.Len(t, store.cycles, 1)
}

func TestDefineCycle_RequiresOrderedDeadlines(t *testing.T) {
	nominations, applications, evaluations := cycleDeadlines()
	criteria := []CriterionInput{{Label: "Leadership", Weight: 1, MaxScore: 10}}

	_, err := DefineCycle(context.Background(), newFakeSuccessionStore(), zap.NewNop(), "Chair", 2027, applications, nominations, evaluations, criteria)
	assert.Error(t, err)

	// Equal deadlines are not strictly ordered either
	_, err = DefineCycle(context.Background(), newFakeSuccessionStore(), zap.NewNop(), "Chair", 2027, nominations, nominations, evaluations, criteria)
	assert.Error(t, err)
}

func TestDefineCycle_RequiresCriteria(t *testing.T) {
	nominations, applications, evaluations := cycleDeadlines()

	_, err := DefineCycle(context.Background(), newFakeSuccessionStore(), zap.NewNop(), "Chair", 2027, nominations, applications, evaluations, nil)
	assert.Error(t, err)
}

func TestDefineCycle_RejectsBadCriterion(t *testing.T) {
	nominations, applications, evaluations := cycleDeadlines()

	cases := []struct {
		name      string
		criterion CriterionInput
	}{
		{"missing label", CriterionInput{Weight: 1, MaxScore: 10}},
		{"negative weight", CriterionInput{Label: "Leadership", Weight: -1, MaxScore: 10}},
		{"zero max score", CriterionInput{Label: "Leadership", Weight: 1, MaxScore: 0}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DefineCycle(context.Background(), newFakeSuccessionStore(), zap.NewNop(), "Chair", 2027, nominations, applications, evaluations, []CriterionInput{tc.criterion})
			assert.Error(t, err)
		})
	}
}

func TestDefineCycle_RequiresRoleName(t *testing.T) {
	nominations, applications, evaluations := cycleDeadlines()

	_, err := DefineCycle(context.Background(), newFakeSuccessionStore(), zap.NewNop(), "", 2027, nominations, applications, evaluations, []CriterionInput{{Label: "Leadership", Weight: 1, MaxScore: 10}})
	assert.Error(t, err)
}
