package db

import "time"

// Member represents a chapter member record
type Member struct {
	ID        string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Pincode   string
	District  string
	State     string
	Skills    []string
	IsTrainer bool
	JoinedAt  time.Time
}

// FullName returns the member's display name
func (m Member) FullName() string {
	return m.FirstName + " " + m.LastName
}

// Event statuses
const (
	EventStatusDraft     = "draft"
	EventStatusPublished = "published"
	EventStatusCompleted = "completed"
)

// Event represents an event record
type Event struct {
	ID              string
	Title           string
	Description     string
	Category        string
	Venue           string
	VenuePincode    string
	VenueDistrict   string
	VenueState      string
	StartTime       time.Time
	EndTime         time.Time
	Capacity        int
	RSVPDeadline    time.Time
	RequiredSkills  []string
	Status          string
	CalendarEventID string
	CreatedAt       time.Time
}

// RSVP statuses
const (
	RSVPStatusConfirmed  = "confirmed"
	RSVPStatusWaitlisted = "waitlisted"
	RSVPStatusCancelled  = "cancelled"
)

// RSVP represents a member's response to an event
type RSVP struct {
	ID        string
	EventID   string
	MemberID  string
	Status    string
	CreatedAt time.Time
}

// CheckIn represents an attendance record at an event
type CheckIn struct {
	ID          string
	EventID     string
	MemberID    string
	CheckedInAt time.Time
}

// Feedback represents one attendee's post-event feedback
type Feedback struct {
	ID        string
	EventID   string
	MemberID  string
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Assignment roles
const (
	AssignmentRoleVolunteer = "volunteer"
	AssignmentRoleTrainer   = "trainer"
)

// Assignment represents a confirmed volunteer or trainer assignment to an event
type Assignment struct {
	ID             string
	EventID        string
	MemberID       string
	Role           string
	CompositeScore float64
	AssignedAt     time.Time
}

// MemberPerformance summarizes a member's historical feedback ratings on
// events they were assigned to
type MemberPerformance struct {
	MemberID      string
	AverageRating float64
	RatedEvents   int
}

// MemberAssignmentHistory summarizes a member's past assignments
type MemberAssignmentHistory struct {
	MemberID         string
	LastAssignedAt   *time.Time
	TotalAssignments int
}

// Succession cycle phases, in order
const (
	PhaseNominations  = "nominations"
	PhaseApplications = "applications"
	PhaseEvaluations  = "evaluations"
	PhaseAnnouncement = "announcement"
)

// SuccessionCycle represents one leadership-succession cycle for a role
type SuccessionCycle struct {
	ID                string
	RoleName          string
	Year              int
	Phase             string
	NominationsClose  time.Time
	ApplicationsClose time.Time
	EvaluationsClose  time.Time
	CreatedAt         time.Time
}

// EvaluationCriterion represents one weighted dimension of candidate
// assessment for a cycle. Immutable once any evaluation entry references it.
type EvaluationCriterion struct {
	ID       string
	CycleID  string
	Label    string
	Weight   float64
	MaxScore float64
	Position int
}

// Nomination represents one member nominating another for a cycle
type Nomination struct {
	ID          string
	CycleID     string
	NominatorID string
	NomineeID   string
	Reason      string
	CreatedAt   time.Time
}

// Application represents a nominee's application for a cycle
type Application struct {
	ID          string
	CycleID     string
	MemberID    string
	Statement   string
	SubmittedAt time.Time
}

// EvaluationEntry represents one evaluator's raw score for one criterion of
// one application. Writes are atomic per evaluator+criterion (upsert), so
// concurrent evaluators never clobber each other
type EvaluationEntry struct {
	ID            string
	ApplicationID string
	EvaluatorID   string
	CriterionID   string
	RawScore      float64
	Comment       string
	CreatedAt     time.Time
}

// OutreachProgram represents a health outreach program run by a chapter
type OutreachProgram struct {
	ID          string
	Name        string
	Chapter     string
	TargetCount int
	CreatedAt   time.Time
}

// Health card statuses
const (
	HealthCardStatusPending = "pending"
	HealthCardStatusIssued  = "issued"
)

// HealthCard represents one beneficiary's health card under a program
type HealthCard struct {
	ID              string
	ProgramID       string
	BeneficiaryName string
	Status          string
	IssuedAt        *time.Time
	CreatedAt       time.Time
}

// HealthCardStats summarizes per-program progress for dashboards
type HealthCardStats struct {
	ProgramID   string
	ProgramName string
	Chapter     string
	TargetCount int
	Issued      int
	Pending     int
}

// Member request statuses
const (
	RequestStatusOpen     = "open"
	RequestStatusApproved = "approved"
	RequestStatusRejected = "rejected"
)

// MemberRequest represents a member's administrative request
type MemberRequest struct {
	ID         string
	MemberID   string
	Type       string
	Details    string
	Status     string
	Note       string
	CreatedAt  time.Time
	ResolvedAt *time.Time
}
