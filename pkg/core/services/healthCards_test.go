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

func TestRegisterProgram_Records(t *testing.T) {
	store := newFakeHealthCardStore()

	program, err := RegisterProgram(context.Background(), store, zap.NewNop(), "Rural Health Drive", "Salem", 200)
	require.NoError(t, err)

	assert.Equal(t, "Rural Health Drive", program.Name)
	assert.Equal(t, 200, program.TargetCount)
	assert.Len(t, store.programs, 1)
}

func TestRegisterProgram_Validation(t *testing.T) {
	_, err := RegisterProgram(context.Background(), newFakeHealthCardStore(), zap.NewNop(), "", "Salem", 10)
	assert.Error(t, err)

	_, err = RegisterProgram(context.Background(), newFakeHealthCardStore(), zap.NewNop(), "Drive", "Salem", -1)
	assert.Error(t, err)
}

func TestRegisterHealthCard_StartsPending(t *testing.T) {
	store := newFakeHealthCardStore()

	card, err := RegisterHealthCard(context.Background(), store, zap.NewNop(), "program-1", "A Beneficiary")
	require.NoError(t, err)

	assert.Equal(t, db.HealthCardStatusPending, card.Status)
	assert.Nil(t, card.IssuedAt)
}

func TestIssueHealthCard_MarksIssued(t *testing.T) {
	store := newFakeHealthCardStore()
	card, err := RegisterHealthCard(context.Background(), store, zap.NewNop(), "program-1", "A Beneficiary")
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, IssueHealthCard(context.Background(), store, zap.NewNop(), card.ID, now))

	stored := store.cards[card.ID]
	assert.Equal(t, db.HealthCardStatusIssued, stored.Status)
	require.NotNil(t, stored.IssuedAt)
	assert.Equal(t, now, *stored.IssuedAt)
}

func TestIssueHealthCard_UnknownCard(t *testing.T) {
	err := IssueHealthCard(context.Background(), newFakeHealthCardStore(), zap.NewNop(), "missing", time.Now())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestHealthCardDashboard_PercentOfTarget(t *testing.T) {
	store := newFakeHealthCardStore()
	store.stats = []db.HealthCardStats{
		{ProgramID: "p-1", ProgramName: "Rural Health Drive", TargetCount: 200, Issued: 50, Pending: 30},
		{ProgramID: "p-2", ProgramName: "School Screening", TargetCount: 0, Issued: 10},
	}

	progress, err := HealthCardDashboard(context.Background(), store, zap.NewNop())
	require.NoError(t, err)
	require.Len(t, progress, 2)

	// 50 issued of a 200 target is 25 percent
	assert.InDelta(t, 25.0, progress[0].PercentOfTarget, 0.001)
	// No target means no percentage rather than a division by zero
	assert.Zero(t, progress[1].PercentOfTarget)
}
