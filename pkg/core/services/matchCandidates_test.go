package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/core/matching"
	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

func matchEvent() *db.Event {
	return &db.Event{
		ID:            "event-1",
		Title:         "First Aid Training",
		Status:        db.EventStatusPublished,
		VenuePincode:  "636007",
		VenueDistrict: "Salem",
		VenueState:    "Tamil Nadu",
	}
}

func member(id, pincode, district, state string, trainer bool) db.Member {
	return db.Member{
		ID:        id,
		FirstName: "Member",
		LastName:  id,
		Pincode:   pincode,
		District:  district,
		State:     state,
		IsTrainer: trainer,
	}
}

func TestMatchVolunteers_OrdersByComposite(t *testing.T) {
	now := time.Now()
	store := newFakeMatchingStore(
		member("m-remote", "600001", "Chennai", "Tamil Nadu", false),
		member("m-local", "636007", "Salem", "Tamil Nadu", false),
	)
	events := newFakeEventStore(matchEvent())

	outcome, err := MatchVolunteers(context.Background(), events, store, zap.NewNop(), "event-1", now)
	require.NoError(t, err)
	require.Len(t, outcome.Candidates, 2)

	assert.Equal(t, db.AssignmentRoleVolunteer, outcome.Role)

	// m-local: pincode match 30 + never assigned 30 + no rated history 12.5
	// + no required skills 15 = 87.5
	top := outcome.Candidates[0]
	assert.Equal(t, 1, top.Rank)
	assert.Equal(t, "m-local", top.MemberID)
	assert.Equal(t, "Member m-local", top.Name)
	assert.InDelta(t, 87.5, top.Composite, 0.001)
	assert.Equal(t, matching.QualityExcellent, top.Quality)

	// m-remote only shares the state: 12 + 30 + 12.5 + 15 = 69.5
	second := outcome.Candidates[1]
	assert.Equal(t, 2, second.Rank)
	assert.Equal(t, "m-remote", second.MemberID)
	assert.InDelta(t, 69.5, second.Composite, 0.001)
	assert.Equal(t, matching.QualityGood, second.Quality)
}

func TestMatchVolunteers_RecentAssignmentLowersDistribution(t *testing.T) {
	now := time.Now()
	lastWeek := now.Add(-10 * 24 * time.Hour)

	store := newFakeMatchingStore(
		member("m-busy", "636007", "Salem", "Tamil Nadu", false),
		member("m-rested", "636007", "Salem", "Tamil Nadu", false),
	)
	store.history["m-busy"] = &db.MemberAssignmentHistory{
		MemberID:         "m-busy",
		LastAssignedAt:   &lastWeek,
		TotalAssignments: 3,
	}
	events := newFakeEventStore(matchEvent())

	outcome, err := MatchVolunteers(context.Background(), events, store, zap.NewNop(), "event-1", now)
	require.NoError(t, err)

	assert.Equal(t, "m-rested", outcome.Candidates[0].MemberID)
	// 10 days since last assignment sits in the 7..30 day bucket: 30 - 10 = 20
	// points less than never-assigned
	assert.InDelta(t, 20, outcome.Candidates[0].Composite-outcome.Candidates[1].Composite, 0.001)
}

func TestMatchVolunteers_SkillOverlapScoresEngagement(t *testing.T) {
	now := time.Now()
	event := matchEvent()
	event.RequiredSkills = []string{"first aid", "crowd management"}

	skilled := member("m-skilled", "636007", "Salem", "Tamil Nadu", false)
	skilled.Skills = []string{"First Aid"}
	unskilled := member("m-unskilled", "636007", "Salem", "Tamil Nadu", false)

	store := newFakeMatchingStore(skilled, unskilled)
	events := newFakeEventStore(event)

	outcome, err := MatchVolunteers(context.Background(), events, store, zap.NewNop(), "event-1", now)
	require.NoError(t, err)

	// One of two required skills matched (case-insensitive): 7.5 vs 0
	assert.Equal(t, "m-skilled", outcome.Candidates[0].MemberID)
	assert.InDelta(t, 7.5, outcome.Candidates[0].Composite-outcome.Candidates[1].Composite, 0.001)
}

func TestMatchVolunteers_TieBreaksOnMemberID(t *testing.T) {
	now := time.Now()
	store := newFakeMatchingStore(
		member("m-b", "636007", "Salem", "Tamil Nadu", false),
		member("m-a", "636007", "Salem", "Tamil Nadu", false),
	)
	events := newFakeEventStore(matchEvent())

	outcome, err := MatchVolunteers(context.Background(), events, store, zap.NewNop(), "event-1", now)
	require.NoError(t, err)

	assert.Equal(t, "m-a", outcome.Candidates[0].MemberID)
	assert.Equal(t, "m-b", outcome.Candidates[1].MemberID)
}

func TestMatchTrainers_FiltersPool(t *testing.T) {
	now := time.Now()
	store := newFakeMatchingStore(
		member("m-1", "636007", "Salem", "Tamil Nadu", false),
		member("m-2", "636007", "Salem", "Tamil Nadu", true),
	)
	events := newFakeEventStore(matchEvent())

	outcome, err := MatchTrainers(context.Background(), events, store, zap.NewNop(), "event-1", now)
	require.NoError(t, err)

	assert.Equal(t, db.AssignmentRoleTrainer, outcome.Role)
	require.Len(t, outcome.Candidates, 1)
	assert.Equal(t, "m-2", outcome.Candidates[0].MemberID)
}

func TestMatchVolunteers_UnknownEvent(t *testing.T) {
	_, err := MatchVolunteers(context.Background(), newFakeEventStore(), newFakeMatchingStore(), zap.NewNop(), "missing", time.Now())
	assert.ErrorIs(t, err, db.ErrNotFound)
}

func TestConfirmAssignments_PersistsTopN(t *testing.T) {
	now := time.Now()
	assignments := newFakeAssignmentStore()
	outcome := &MatchOutcome{
		EventID: "event-1",
		Role:    db.AssignmentRoleVolunteer,
		Candidates: []MatchedCandidate{
			{Rank: 1, MemberID: "m-1", Composite: 90},
			{Rank: 2, MemberID: "m-2", Composite: 80},
			{Rank: 3, MemberID: "m-3", Composite: 70},
		},
	}

	records, err := ConfirmAssignments(context.Background(), assignments, zap.NewNop(), outcome, 2, now)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "m-1", records[0].MemberID)
	assert.Equal(t, "m-2", records[1].MemberID)
	assert.Equal(t, db.AssignmentRoleVolunteer, records[0].Role)
	assert.InDelta(t, 90, records[0].CompositeScore, 0.001)
	assert.Len(t, assignments.inserted, 2)
}

func TestConfirmAssignments_CapsAtPoolSize(t *testing.T) {
	outcome := &MatchOutcome{
		EventID:    "event-1",
		Role:       db.AssignmentRoleVolunteer,
		Candidates: []MatchedCandidate{{Rank: 1, MemberID: "m-1", Composite: 90}},
	}

	records, err := ConfirmAssignments(context.Background(), newFakeAssignmentStore(), zap.NewNop(), outcome, 5, time.Now())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestConfirmAssignments_RejectsNonPositiveCount(t *testing.T) {
	outcome := &MatchOutcome{EventID: "event-1", Role: db.AssignmentRoleVolunteer}

	_, err := ConfirmAssignments(context.Background(), newFakeAssignmentStore(), zap.NewNop(), outcome, 0, time.Now())
	assert.Error(t, err)
}

func TestConfirmAssignments_InsertFailure(t *testing.T) {
	assignments := newFakeAssignmentStore()
	assignments.insertErr = errors.New("connection reset")
	outcome := &MatchOutcome{
		EventID:    "event-1",
		Role:       db.AssignmentRoleVolunteer,
		Candidates: []MatchedCandidate{{Rank: 1, MemberID: "m-1", Composite: 90}},
	}

	_, err := ConfirmAssignments(context.Background(), assignments, zap.NewNop(), outcome, 1, time.Now())
	assert.Error(t, err)
}
