package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

const eventColumns = `id, title, description, category, venue, venue_pincode, venue_district, venue_state,
	start_time, end_time, capacity, rsvp_deadline, required_skills, status, calendar_event_id, created_at`

func scanEvent(row pgx.Row) (*db.Event, error) {
	var e db.Event
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.Category, &e.Venue,
		&e.VenuePincode, &e.VenueDistrict, &e.VenueState,
		&e.StartTime, &e.EndTime, &e.Capacity, &e.RSVPDeadline,
		&e.RequiredSkills, &e.Status, &e.CalendarEventID, &e.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// InsertEvent inserts a new event record
func (d *DB) InsertEvent(ctx context.Context, event *db.Event) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO event (id, title, description, category, venue, venue_pincode, venue_district, venue_state,
			start_time, end_time, capacity, rsvp_deadline, required_skills, status, calendar_event_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
	`, event.ID, event.Title, event.Description, event.Category, event.Venue,
		event.VenuePincode, event.VenueDistrict, event.VenueState,
		event.StartTime, event.EndTime, event.Capacity, event.RSVPDeadline,
		event.RequiredSkills, event.Status, event.CalendarEventID, event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// GetEvent retrieves one event by id
func (d *DB) GetEvent(ctx context.Context, id string) (*db.Event, error) {
	event, err := scanEvent(d.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM event
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// ListEvents retrieves events, optionally filtered by status, newest first
func (d *DB) ListEvents(ctx context.Context, status string) ([]db.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM event`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY start_time DESC`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []db.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, *event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating events: %w", err)
	}

	return events, nil
}

// UpdateEventStatus updates an event's status
func (d *DB) UpdateEventStatus(ctx context.Context, id, status string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE event SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update event status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// SetCalendarEventID records the chapter-calendar entry created for an event
func (d *DB) SetCalendarEventID(ctx context.Context, id, calendarEventID string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE event SET calendar_event_id = $2 WHERE id = $1`, id, calendarEventID)
	if err != nil {
		return fmt.Errorf("failed to set calendar event id: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
