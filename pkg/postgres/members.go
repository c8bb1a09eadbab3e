package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

const memberColumns = `id, first_name, last_name, email, phone, pincode, district, state, skills, is_trainer, joined_at`

func scanMember(row pgx.Row) (*db.Member, error) {
	var m db.Member
	err := row.Scan(&m.ID, &m.FirstName, &m.LastName, &m.Email, &m.Phone,
		&m.Pincode, &m.District, &m.State, &m.Skills, &m.IsTrainer, &m.JoinedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListMembers retrieves all member records ordered by name
func (d *DB) ListMembers(ctx context.Context) ([]db.Member, error) {
	return d.queryMembers(ctx, `
		SELECT `+memberColumns+`
		FROM member
		ORDER BY first_name, last_name
	`)
}

// ListTrainers retrieves all members flagged as trainers
func (d *DB) ListTrainers(ctx context.Context) ([]db.Member, error) {
	return d.queryMembers(ctx, `
		SELECT `+memberColumns+`
		FROM member
		WHERE is_trainer
		ORDER BY first_name, last_name
	`)
}

// GetMember retrieves one member by id
func (d *DB) GetMember(ctx context.Context, id string) (*db.Member, error) {
	member, err := scanMember(d.pool.QueryRow(ctx, `
		SELECT `+memberColumns+`
		FROM member
		WHERE id = $1
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return member, nil
}

func (d *DB) queryMembers(ctx context.Context, query string, args ...any) ([]db.Member, error) {
	rows, err := d.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query members: %w", err)
	}
	defer rows.Close()

	var members []db.Member
	for rows.Next() {
		member, err := scanMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, *member)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}
