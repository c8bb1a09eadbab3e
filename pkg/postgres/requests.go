package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// InsertRequest inserts a member request
func (d *DB) InsertRequest(ctx context.Context, request *db.MemberRequest) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO member_request (id, member_id, type, details, status, note, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, request.ID, request.MemberID, request.Type, request.Details,
		request.Status, request.Note, request.CreatedAt, request.ResolvedAt)
	if err != nil {
		return fmt.Errorf("failed to insert request: %w", err)
	}
	return nil
}

// GetRequest retrieves one member request by id
func (d *DB) GetRequest(ctx context.Context, id string) (*db.MemberRequest, error) {
	var r db.MemberRequest
	err := d.pool.QueryRow(ctx, `
		SELECT id, member_id, type, details, status, note, created_at, resolved_at
		FROM member_request
		WHERE id = $1
	`, id).Scan(&r.ID, &r.MemberID, &r.Type, &r.Details, &r.Status, &r.Note, &r.CreatedAt, &r.ResolvedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get request: %w", err)
	}
	return &r, nil
}

// ListRequests retrieves member requests, optionally filtered by status,
// oldest first so the queue is worked in arrival order
func (d *DB) ListRequests(ctx context.Context, status string) ([]db.MemberRequest, error) {
	query := `
		SELECT id, member_id, type, details, status, note, created_at, resolved_at
		FROM member_request`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at`

	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query requests: %w", err)
	}
	defer rows.Close()

	var requests []db.MemberRequest
	for rows.Next() {
		var r db.MemberRequest
		if err := rows.Scan(&r.ID, &r.MemberID, &r.Type, &r.Details, &r.Status, &r.Note, &r.CreatedAt, &r.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan request: %w", err)
		}
		requests = append(requests, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating requests: %w", err)
	}

	return requests, nil
}

// ResolveRequest closes a request with the given status and note
func (d *DB) ResolveRequest(ctx context.Context, id, status, note string, resolvedAt time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE member_request SET status = $2, note = $3, resolved_at = $4 WHERE id = $1
	`, id, status, note, resolvedAt)
	if err != nil {
		return fmt.Errorf("failed to resolve request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}
