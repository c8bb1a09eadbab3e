package matching

import (
	"strings"
	"time"
)

// Sub-heuristics that produce the bounded factor scores fed into Rank.
// Each function is pure and returns a value in [0, factor maximum] by
// construction, so Rank's clamp should never fire for scores built here.

// Location is the candidate's location relative to the event venue.
type Location struct {
	Pincode  string
	District string
	State    string
}

// LocationScore buckets proximity between a candidate and an event venue.
// Same pincode scores full points, falling through coarser buckets down to a
// floor for out-of-state candidates. Missing location data lands in the
// lowest bucket rather than failing.
func LocationScore(candidate, venue Location) float64 {
	switch {
	case candidate.Pincode != "" && equalFold(candidate.Pincode, venue.Pincode):
		return 30
	case candidate.District != "" && equalFold(candidate.District, venue.District):
		return 22
	case candidate.State != "" && equalFold(candidate.State, venue.State):
		return 12
	default:
		return 4
	}
}

// AssignmentHistory summarizes a candidate's past assignments, used for
// distribution fairness.
type AssignmentHistory struct {
	// LastAssignedAt is nil if the candidate has never been assigned
	LastAssignedAt *time.Time

	// TotalAssignments counts all historical assignments
	TotalAssignments int
}

// DistributionScore rewards candidates who have gone longest without an
// assignment, keeping opportunities spread across the member base. Buckets on
// hours since the last assignment; never-assigned candidates score full
// points.
func DistributionScore(history AssignmentHistory, now time.Time) float64 {
	if history.LastAssignedAt == nil {
		return 30
	}

	hoursSince := now.Sub(*history.LastAssignedAt).Hours()
	switch {
	case hoursSince >= 90*24:
		return 26
	case hoursSince >= 30*24:
		return 18
	case hoursSince >= 7*24:
		return 10
	default:
		return 4
	}
}

// PerformanceScore scales the candidate's average feedback rating (1..5 from
// past event feedback) onto the performance allocation. Candidates with no
// rated history sit at the midpoint so newcomers are neither favoured nor
// buried.
func PerformanceScore(averageRating float64, ratedEvents int) float64 {
	if ratedEvents == 0 {
		return 12.5
	}

	// Bound the input before scaling - a corrupt rating must not escape the
	// factor maximum
	if averageRating < 0 {
		averageRating = 0
	}
	if averageRating > 5 {
		averageRating = 5
	}

	return (averageRating / 5) * 25
}

// EngagementScore measures skill and interest overlap between the candidate
// and the event's requirements. The score is the matched fraction of required
// skills scaled onto the engagement allocation. An event with no declared
// requirements gives everyone full engagement points, since there is nothing
// to mismatch.
func EngagementScore(candidateSkills, requiredSkills []string) float64 {
	if len(requiredSkills) == 0 {
		return 15
	}

	have := make(map[string]bool, len(candidateSkills))
	for _, skill := range candidateSkills {
		have[normalizeSkill(skill)] = true
	}

	matched := 0
	for _, required := range requiredSkills {
		if have[normalizeSkill(required)] {
			matched++
		}
	}

	return float64(matched) / float64(len(requiredSkills)) * 15
}

func normalizeSkill(skill string) string {
	return strings.ToLower(strings.TrimSpace(skill))
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
