package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// InsertProgram inserts an outreach program record
func (d *DB) InsertProgram(ctx context.Context, program *db.OutreachProgram) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO outreach_program (id, name, chapter, target_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, program.ID, program.Name, program.Chapter, program.TargetCount, program.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert program: %w", err)
	}
	return nil
}

// InsertHealthCard inserts a beneficiary's health card record
func (d *DB) InsertHealthCard(ctx context.Context, card *db.HealthCard) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO health_card (id, program_id, beneficiary_name, status, issued_at, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, card.ID, card.ProgramID, card.BeneficiaryName, card.Status, card.IssuedAt, card.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert health card: %w", err)
	}
	return nil
}

// MarkHealthCardIssued flips a pending card to issued with the issue time
func (d *DB) MarkHealthCardIssued(ctx context.Context, cardID string, issuedAt time.Time) error {
	tag, err := d.pool.Exec(ctx, `
		UPDATE health_card SET status = $2, issued_at = $3 WHERE id = $1
	`, cardID, db.HealthCardStatusIssued, issuedAt)
	if err != nil {
		return fmt.Errorf("failed to mark health card issued: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// GetHealthCardStats aggregates per-program issued/pending counts for the
// outreach dashboard
func (d *DB) GetHealthCardStats(ctx context.Context) ([]db.HealthCardStats, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT p.id, p.name, p.chapter, p.target_count,
			COUNT(*) FILTER (WHERE c.status = 'issued'),
			COUNT(*) FILTER (WHERE c.status = 'pending')
		FROM outreach_program p
		LEFT JOIN health_card c ON c.program_id = p.id
		GROUP BY p.id, p.name, p.chapter, p.target_count
		ORDER BY p.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query health card stats: %w", err)
	}
	defer rows.Close()

	var stats []db.HealthCardStats
	for rows.Next() {
		var s db.HealthCardStats
		if err := rows.Scan(&s.ProgramID, &s.ProgramName, &s.Chapter, &s.TargetCount, &s.Issued, &s.Pending); err != nil {
			return nil, fmt.Errorf("failed to scan health card stats: %w", err)
		}
		stats = append(stats, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating health card stats: %w", err)
	}

	return stats, nil
}
