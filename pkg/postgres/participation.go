package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// GetRSVP retrieves a member's RSVP for an event
func (d *DB) GetRSVP(ctx context.Context, eventID, memberID string) (*db.RSVP, error) {
	var r db.RSVP
	err := d.pool.QueryRow(ctx, `
		SELECT id, event_id, member_id, status, created_at
		FROM rsvp
		WHERE event_id = $1 AND member_id = $2
	`, eventID, memberID).Scan(&r.ID, &r.EventID, &r.MemberID, &r.Status, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rsvp: %w", err)
	}
	return &r, nil
}

// UpsertRSVP inserts an RSVP, or updates the status if the member already
// responded to this event
func (d *DB) UpsertRSVP(ctx context.Context, rsvp *db.RSVP) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO rsvp (id, event_id, member_id, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (event_id, member_id) DO UPDATE SET status = EXCLUDED.status
	`, rsvp.ID, rsvp.EventID, rsvp.MemberID, rsvp.Status, rsvp.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert rsvp: %w", err)
	}
	return nil
}

// CountConfirmedRSVPs counts confirmed RSVPs for an event
func (d *DB) CountConfirmedRSVPs(ctx context.Context, eventID string) (int, error) {
	var count int
	err := d.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM rsvp WHERE event_id = $1 AND status = $2
	`, eventID, db.RSVPStatusConfirmed).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count rsvps: %w", err)
	}
	return count, nil
}

// ListRSVPs retrieves all RSVPs for an event
func (d *DB) ListRSVPs(ctx context.Context, eventID string) ([]db.RSVP, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, event_id, member_id, status, created_at
		FROM rsvp
		WHERE event_id = $1
		ORDER BY created_at
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query rsvps: %w", err)
	}
	defer rows.Close()

	var rsvps []db.RSVP
	for rows.Next() {
		var r db.RSVP
		if err := rows.Scan(&r.ID, &r.EventID, &r.MemberID, &r.Status, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rsvp: %w", err)
		}
		rsvps = append(rsvps, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rsvps: %w", err)
	}

	return rsvps, nil
}

// InsertCheckIn inserts an attendance record
func (d *DB) InsertCheckIn(ctx context.Context, checkIn *db.CheckIn) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO check_in (id, event_id, member_id, checked_in_at)
		VALUES ($1, $2, $3, $4)
	`, checkIn.ID, checkIn.EventID, checkIn.MemberID, checkIn.CheckedInAt)
	if err != nil {
		return fmt.Errorf("failed to insert check-in: %w", err)
	}
	return nil
}

// HasCheckedIn reports whether a member has already checked in to an event
func (d *DB) HasCheckedIn(ctx context.Context, eventID, memberID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM check_in WHERE event_id = $1 AND member_id = $2)
	`, eventID, memberID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check check-in: %w", err)
	}
	return exists, nil
}

// InsertFeedback inserts one attendee's feedback for an event
func (d *DB) InsertFeedback(ctx context.Context, feedback *db.Feedback) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO feedback (id, event_id, member_id, rating, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, feedback.ID, feedback.EventID, feedback.MemberID, feedback.Rating, feedback.Comment, feedback.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert feedback: %w", err)
	}
	return nil
}

// HasFeedback reports whether a member has already left feedback for an event
func (d *DB) HasFeedback(ctx context.Context, eventID, memberID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM feedback WHERE event_id = $1 AND member_id = $2)
	`, eventID, memberID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check feedback: %w", err)
	}
	return exists, nil
}

// GetMemberPerformance averages the feedback ratings on events the member was
// assigned to, feeding the performance match factor
func (d *DB) GetMemberPerformance(ctx context.Context, memberID string) (*db.MemberPerformance, error) {
	perf := &db.MemberPerformance{MemberID: memberID}
	err := d.pool.QueryRow(ctx, `
		SELECT COALESCE(AVG(f.rating), 0), COUNT(DISTINCT f.event_id)
		FROM assignment a
		JOIN feedback f ON f.event_id = a.event_id
		WHERE a.member_id = $1
	`, memberID).Scan(&perf.AverageRating, &perf.RatedEvents)
	if err != nil {
		return nil, fmt.Errorf("failed to get member performance: %w", err)
	}
	return perf, nil
}
