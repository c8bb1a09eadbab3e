package services

import (
	"context"
	"time"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// In-memory store fakes shared across the service tests. Each fake exposes
// error fields so failure paths can be injected.

func participationKey(eventID, memberID string) string { return eventID + "|" + memberID }

type fakeEventStore struct {
	events    map[string]*db.Event
	insertErr error
}

func newFakeEventStore(events ...*db.Event) *fakeEventStore {
	store := &fakeEventStore{events: make(map[string]*db.Event)}
	for _, e := range events {
		store.events[e.ID] = e
	}
	return store
}

func (f *fakeEventStore) InsertEvent(_ context.Context, event *db.Event) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.events[event.ID] = event
	return nil
}

func (f *fakeEventStore) GetEvent(_ context.Context, id string) (*db.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return event, nil
}

func (f *fakeEventStore) ListEvents(_ context.Context, status string) ([]db.Event, error) {
	var out []db.Event
	for _, e := range f.events {
		if status == "" || e.Status == status {
			out = append(out, *e)
		}
	}
	return out, nil
}

func (f *fakeEventStore) UpdateEventStatus(_ context.Context, id, status string) error {
	event, ok := f.events[id]
	if !ok {
		return db.ErrNotFound
	}
	event.Status = status
	return nil
}

func (f *fakeEventStore) SetCalendarEventID(_ context.Context, id, calendarEventID string) error {
	event, ok := f.events[id]
	if !ok {
		return db.ErrNotFound
	}
	event.CalendarEventID = calendarEventID
	return nil
}

type fakeRSVPStore struct {
	rsvps     map[string]*db.RSVP
	upsertErr error
}

func newFakeRSVPStore() *fakeRSVPStore {
	return &fakeRSVPStore{rsvps: make(map[string]*db.RSVP)}
}

func (f *fakeRSVPStore) GetRSVP(_ context.Context, eventID, memberID string) (*db.RSVP, error) {
	rsvp, ok := f.rsvps[participationKey(eventID, memberID)]
	if !ok {
		return nil, db.ErrNotFound
	}
	return rsvp, nil
}

func (f *fakeRSVPStore) UpsertRSVP(_ context.Context, rsvp *db.RSVP) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.rsvps[participationKey(rsvp.EventID, rsvp.MemberID)] = rsvp
	return nil
}

func (f *fakeRSVPStore) CountConfirmedRSVPs(_ context.Context, eventID string) (int, error) {
	count := 0
	for _, r := range f.rsvps {
		if r.EventID == eventID && r.Status == db.RSVPStatusConfirmed {
			count++
		}
	}
	return count, nil
}

func (f *fakeRSVPStore) ListRSVPs(_ context.Context, eventID string) ([]db.RSVP, error) {
	var out []db.RSVP
	for _, r := range f.rsvps {
		if r.EventID == eventID {
			out = append(out, *r)
		}
	}
	return out, nil
}

// confirm seeds a confirmed RSVP
func (f *fakeRSVPStore) confirm(eventID, memberID string) {
	f.rsvps[participationKey(eventID, memberID)] = &db.RSVP{
		ID:       "rsvp-" + memberID,
		EventID:  eventID,
		MemberID: memberID,
		Status:   db.RSVPStatusConfirmed,
	}
}

type fakeCheckInStore struct {
	checkIns  map[string]bool
	insertErr error
}

func newFakeCheckInStore() *fakeCheckInStore {
	return &fakeCheckInStore{checkIns: make(map[string]bool)}
}

func (f *fakeCheckInStore) InsertCheckIn(_ context.Context, checkIn *db.CheckIn) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.checkIns[participationKey(checkIn.EventID, checkIn.MemberID)] = true
	return nil
}

func (f *fakeCheckInStore) HasCheckedIn(_ context.Context, eventID, memberID string) (bool, error) {
	return f.checkIns[participationKey(eventID, memberID)], nil
}

type fakeFeedbackStore struct {
	feedback    map[string]bool
	performance map[string]*db.MemberPerformance
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{
		feedback:    make(map[string]bool),
		performance: make(map[string]*db.MemberPerformance),
	}
}

func (f *fakeFeedbackStore) InsertFeedback(_ context.Context, feedback *db.Feedback) error {
	f.feedback[participationKey(feedback.EventID, feedback.MemberID)] = true
	return nil
}

func (f *fakeFeedbackStore) HasFeedback(_ context.Context, eventID, memberID string) (bool, error) {
	return f.feedback[participationKey(eventID, memberID)], nil
}

func (f *fakeFeedbackStore) GetMemberPerformance(_ context.Context, memberID string) (*db.MemberPerformance, error) {
	if p, ok := f.performance[memberID]; ok {
		return p, nil
	}
	return &db.MemberPerformance{MemberID: memberID}, nil
}

type fakeAssignmentStore struct {
	inserted  []db.Assignment
	history   map[string]*db.MemberAssignmentHistory
	insertErr error
}

func newFakeAssignmentStore() *fakeAssignmentStore {
	return &fakeAssignmentStore{history: make(map[string]*db.MemberAssignmentHistory)}
}

func (f *fakeAssignmentStore) InsertAssignments(_ context.Context, assignments []db.Assignment) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, assignments...)
	return nil
}

func (f *fakeAssignmentStore) GetMemberAssignmentHistory(_ context.Context, memberID string) (*db.MemberAssignmentHistory, error) {
	if h, ok := f.history[memberID]; ok {
		return h, nil
	}
	return &db.MemberAssignmentHistory{MemberID: memberID}, nil
}

type fakeMemberStore struct {
	members []db.Member
}

func (f *fakeMemberStore) ListMembers(_ context.Context) ([]db.Member, error) {
	return f.members, nil
}

func (f *fakeMemberStore) ListTrainers(_ context.Context) ([]db.Member, error) {
	var trainers []db.Member
	for _, m := range f.members {
		if m.IsTrainer {
			trainers = append(trainers, m)
		}
	}
	return trainers, nil
}

func (f *fakeMemberStore) GetMember(_ context.Context, id string) (*db.Member, error) {
	for i := range f.members {
		if f.members[i].ID == id {
			return &f.members[i], nil
		}
	}
	return nil, db.ErrNotFound
}

// fakeMatchingStore satisfies db.MatchingStore
type fakeMatchingStore struct {
	fakeMemberStore
	*fakeFeedbackStore
	*fakeAssignmentStore
}

func newFakeMatchingStore(members ...db.Member) *fakeMatchingStore {
	return &fakeMatchingStore{
		fakeMemberStore:     fakeMemberStore{members: members},
		fakeFeedbackStore:   newFakeFeedbackStore(),
		fakeAssignmentStore: newFakeAssignmentStore(),
	}
}

type fakeSuccessionStore struct {
	cycles       map[string]*db.SuccessionCycle
	criteria     map[string][]db.EvaluationCriterion
	nominators   map[string]bool
	nominees     map[string]bool
	applications map[string][]db.Application
	entries      map[string][]db.EvaluationEntry
	insertErr    error
}

func newFakeSuccessionStore() *fakeSuccessionStore {
	return &fakeSuccessionStore{
		cycles:       make(map[string]*db.SuccessionCycle),
		criteria:     make(map[string][]db.EvaluationCriterion),
		nominators:   make(map[string]bool),
		nominees:     make(map[string]bool),
		applications: make(map[string][]db.Application),
		entries:      make(map[string][]db.EvaluationEntry),
	}
}

func (f *fakeSuccessionStore) InsertCycle(_ context.Context, cycle *db.SuccessionCycle) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.cycles[cycle.ID] = cycle
	return nil
}

func (f *fakeSuccessionStore) GetCycle(_ context.Context, id string) (*db.SuccessionCycle, error) {
	cycle, ok := f.cycles[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return cycle, nil
}

func (f *fakeSuccessionStore) UpdateCyclePhase(_ context.Context, id, phase string) error {
	cycle, ok := f.cycles[id]
	if !ok {
		return db.ErrNotFound
	}
	cycle.Phase = phase
	return nil
}

func (f *fakeSuccessionStore) InsertCriteria(_ context.Context, criteria []db.EvaluationCriterion) error {
	for _, c := range criteria {
		f.criteria[c.CycleID] = append(f.criteria[c.CycleID], c)
	}
	return nil
}

func (f *fakeSuccessionStore) GetCriteria(_ context.Context, cycleID string) ([]db.EvaluationCriterion, error) {
	return f.criteria[cycleID], nil
}

func (f *fakeSuccessionStore) InsertNomination(_ context.Context, nomination *db.Nomination) error {
	f.nominators[participationKey(nomination.CycleID, nomination.NominatorID)] = true
	f.nominees[participationKey(nomination.CycleID, nomination.NomineeID)] = true
	return nil
}

func (f *fakeSuccessionStore) HasNominated(_ context.Context, cycleID, nominatorID string) (bool, error) {
	return f.nominators[participationKey(cycleID, nominatorID)], nil
}

func (f *fakeSuccessionStore) HasNomination(_ context.Context, cycleID, nomineeID string) (bool, error) {
	return f.nominees[participationKey(cycleID, nomineeID)], nil
}

func (f *fakeSuccessionStore) InsertApplication(_ context.Context, application *db.Application) error {
	f.applications[application.CycleID] = append(f.applications[application.CycleID], *application)
	return nil
}

func (f *fakeSuccessionStore) GetApplication(_ context.Context, cycleID, memberID string) (*db.Application, error) {
	for i := range f.applications[cycleID] {
		if f.applications[cycleID][i].MemberID == memberID {
			return &f.applications[cycleID][i], nil
		}
	}
	return nil, db.ErrNotFound
}

func (f *fakeSuccessionStore) ListApplications(_ context.Context, cycleID string) ([]db.Application, error) {
	return f.applications[cycleID], nil
}

func (f *fakeSuccessionStore) UpsertEvaluationEntry(_ context.Context, entry *db.EvaluationEntry) error {
	// Replace any prior entry for the same evaluator and criterion
	entries := f.entries[entry.ApplicationID]
	for i := range entries {
		if entries[i].EvaluatorID == entry.EvaluatorID && entries[i].CriterionID == entry.CriterionID {
			entries[i] = *entry
			return nil
		}
	}
	f.entries[entry.ApplicationID] = append(entries, *entry)
	return nil
}

func (f *fakeSuccessionStore) ListEvaluationEntries(_ context.Context, applicationID string) ([]db.EvaluationEntry, error) {
	return f.entries[applicationID], nil
}

type fakeRequestStore struct {
	requests map[string]*db.MemberRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[string]*db.MemberRequest)}
}

func (f *fakeRequestStore) InsertRequest(_ context.Context, request *db.MemberRequest) error {
	f.requests[request.ID] = request
	return nil
}

func (f *fakeRequestStore) GetRequest(_ context.Context, id string) (*db.MemberRequest, error) {
	request, ok := f.requests[id]
	if !ok {
		return nil, db.ErrNotFound
	}
	return request, nil
}

func (f *fakeRequestStore) ListRequests(_ context.Context, status string) ([]db.MemberRequest, error) {
	var out []db.MemberRequest
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRequestStore) ResolveRequest(_ context.Context, id, status, note string, resolvedAt time.Time) error {
	request, ok := f.requests[id]
	if !ok {
		return db.ErrNotFound
	}
	request.Status = status
	request.Note = note
	request.ResolvedAt = &resolvedAt
	return nil
}

type fakeHealthCardStore struct {
	programs map[string]*db.OutreachProgram
	cards    map[string]*db.HealthCard
	stats    []db.HealthCardStats
}

func newFakeHealthCardStore() *fakeHealthCardStore {
	return &fakeHealthCardStore{
		programs: make(map[string]*db.OutreachProgram),
		cards:    make(map[string]*db.HealthCard),
	}
}

func (f *fakeHealthCardStore) InsertProgram(_ context.Context, program *db.OutreachProgram) error {
	f.programs[program.ID] = program
	return nil
}

func (f *fakeHealthCardStore) InsertHealthCard(_ context.Context, card *db.HealthCard) error {
	f.cards[card.ID] = card
	return nil
}

func (f *fakeHealthCardStore) MarkHealthCardIssued(_ context.Context, cardID string, issuedAt time.Time) error {
	card, ok := f.cards[cardID]
	if !ok {
		return db.ErrNotFound
	}
	card.Status = db.HealthCardStatusIssued
	card.IssuedAt = &issuedAt
	return nil
}

func (f *fakeHealthCardStore) GetHealthCardStats(_ context.Context) ([]db.HealthCardStats, error) {
	return f.stats, nil
}
