package postgres

import (
	"context"
	"fmt"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// InsertAssignments inserts assignment records in a single transaction
func (d *DB) InsertAssignments(ctx context.Context, assignments []db.Assignment) error {
	if len(assignments) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, a := range assignments {
		_, err := tx.Exec(ctx, `
			INSERT INTO assignment (id, event_id, member_id, role, composite_score, assigned_at)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, a.ID, a.EventID, a.MemberID, a.Role, a.CompositeScore, a.AssignedAt)
		if err != nil {
			return fmt.Errorf("failed to insert assignment: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetMemberAssignmentHistory summarizes a member's past assignments, feeding
// the distribution-fairness match factor
func (d *DB) GetMemberAssignmentHistory(ctx context.Context, memberID string) (*db.MemberAssignmentHistory, error) {
	history := &db.MemberAssignmentHistory{MemberID: memberID}
	err := d.pool.QueryRow(ctx, `
		SELECT MAX(assigned_at), COUNT(*)
		FROM assignment
		WHERE member_id = $1
	`, memberID).Scan(&history.LastAssignedAt, &history.TotalAssignments)
	if err != nil {
		return nil, fmt.Errorf("failed to get assignment history: %w", err)
	}
	return history, nil
}
