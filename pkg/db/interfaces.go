package db

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get operations when no record matches
var ErrNotFound = errors.New("record not found")

// MemberStore defines the interface for member database operations
type MemberStore interface {
	ListMembers(ctx context.Context) ([]Member, error)
	ListTrainers(ctx context.Context) ([]Member, error)
	GetMember(ctx context.Context, id string) (*Member, error)
}

// EventStore defines the interface for event database operations
type EventStore interface {
	InsertEvent(ctx context.Context, event *Event) error
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, status string) ([]Event, error)
	UpdateEventStatus(ctx context.Context, id, status string) error
	SetCalendarEventID(ctx context.Context, id, calendarEventID string) error
}

// RSVPStore defines the interface for RSVP database operations
type RSVPStore interface {
	GetRSVP(ctx context.Context, eventID, memberID string) (*RSVP, error)
	UpsertRSVP(ctx context.Context, rsvp *RSVP) error
	CountConfirmedRSVPs(ctx context.Context, eventID string) (int, error)
	ListRSVPs(ctx context.Context, eventID string) ([]RSVP, error)
}

// CheckInStore defines the interface for check-in database operations
type CheckInStore interface {
	InsertCheckIn(ctx context.Context, checkIn *CheckIn) error
	HasCheckedIn(ctx context.Context, eventID, memberID string) (bool, error)
}

// FeedbackStore defines the interface for feedback database operations
type FeedbackStore interface {
	InsertFeedback(ctx context.Context, feedback *Feedback) error
	HasFeedback(ctx context.Context, eventID, memberID string) (bool, error)
	GetMemberPerformance(ctx context.Context, memberID string) (*MemberPerformance, error)
}

// AssignmentStore defines the interface for assignment database operations
type AssignmentStore interface {
	InsertAssignments(ctx context.Context, assignments []Assignment) error
	GetMemberAssignmentHistory(ctx context.Context, memberID string) (*MemberAssignmentHistory, error)
}

// SuccessionStore defines the interface for succession-cycle database operations
type SuccessionStore interface {
	InsertCycle(ctx context.Context, cycle *SuccessionCycle) error
	GetCycle(ctx context.Context, id string) (*SuccessionCycle, error)
	UpdateCyclePhase(ctx context.Context, id, phase string) error

	InsertCriteria(ctx context.Context, criteria []EvaluationCriterion) error
	GetCriteria(ctx context.Context, cycleID string) ([]EvaluationCriterion, error)

	InsertNomination(ctx context.Context, nomination *Nomination) error
	HasNominated(ctx context.Context, cycleID, nominatorID string) (bool, error)
	HasNomination(ctx context.Context, cycleID, nomineeID string) (bool, error)

	InsertApplication(ctx context.Context, application *Application) error
	GetApplication(ctx context.Context, cycleID, memberID string) (*Application, error)
	ListApplications(ctx context.Context, cycleID string) ([]Application, error)

	UpsertEvaluationEntry(ctx context.Context, entry *EvaluationEntry) error
	ListEvaluationEntries(ctx context.Context, applicationID string) ([]EvaluationEntry, error)
}

// HealthCardStore defines the interface for health-card database operations
type HealthCardStore interface {
	InsertProgram(ctx context.Context, program *OutreachProgram) error
	InsertHealthCard(ctx context.Context, card *HealthCard) error
	MarkHealthCardIssued(ctx context.Context, cardID string, issuedAt time.Time) error
	GetHealthCardStats(ctx context.Context) ([]HealthCardStats, error)
}

// RequestStore defines the interface for member-request database operations
type RequestStore interface {
	InsertRequest(ctx context.Context, request *MemberRequest) error
	GetRequest(ctx context.Context, id string) (*MemberRequest, error)
	ListRequests(ctx context.Context, status string) ([]MemberRequest, error)
	ResolveRequest(ctx context.Context, id, status, note string, resolvedAt time.Time) error
}

// MatchingStore combines the reads the volunteer and trainer matchers need
type MatchingStore interface {
	MemberStore
	FeedbackStore
	AssignmentStore
}
