package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// InsertCycle inserts a new succession cycle
func (d *DB) InsertCycle(ctx context.Context, cycle *db.SuccessionCycle) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO succession_cycle (id, role_name, year, phase, nominations_close, applications_close, evaluations_close, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, cycle.ID, cycle.RoleName, cycle.Year, cycle.Phase,
		cycle.NominationsClose, cycle.ApplicationsClose, cycle.EvaluationsClose, cycle.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cycle: %w", err)
	}
	return nil
}

// GetCycle retrieves one succession cycle by id
func (d *DB) GetCycle(ctx context.Context, id string) (*db.SuccessionCycle, error) {
	var c db.SuccessionCycle
	err := d.pool.QueryRow(ctx, `
		SELECT id, role_name, year, phase, nominations_close, applications_close, evaluations_close, created_at
		FROM succession_cycle
		WHERE id = $1
	`, id).Scan(&c.ID, &c.RoleName, &c.Year, &c.Phase,
		&c.NominationsClose, &c.ApplicationsClose, &c.EvaluationsClose, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get cycle: %w", err)
	}
	return &c, nil
}

// UpdateCyclePhase advances a cycle to the given phase
func (d *DB) UpdateCyclePhase(ctx context.Context, id, phase string) error {
	tag, err := d.pool.Exec(ctx, `UPDATE succession_cycle SET phase = $2 WHERE id = $1`, id, phase)
	if err != nil {
		return fmt.Errorf("failed to update cycle phase: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return db.ErrNotFound
	}
	return nil
}

// InsertCriteria inserts a cycle's evaluation criteria in a single transaction
func (d *DB) InsertCriteria(ctx context.Context, criteria []db.EvaluationCriterion) error {
	if len(criteria) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, c := range criteria {
		_, err := tx.Exec(ctx, `
			INSERT INTO evaluation_criterion (id, cycle_id, label, weight, max_score, position)
			VALUES ($1, $2, $3, $4, $5, $6)
		`, c.ID, c.CycleID, c.Label, c.Weight, c.MaxScore, c.Position)
		if err != nil {
			return fmt.Errorf("failed to insert criterion: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetCriteria retrieves a cycle's criteria in display order
func (d *DB) GetCriteria(ctx context.Context, cycleID string) ([]db.EvaluationCriterion, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, cycle_id, label, weight, max_score, position
		FROM evaluation_criterion
		WHERE cycle_id = $1
		ORDER BY position
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query criteria: %w", err)
	}
	defer rows.Close()

	var criteria []db.EvaluationCriterion
	for rows.Next() {
		var c db.EvaluationCriterion
		if err := rows.Scan(&c.ID, &c.CycleID, &c.Label, &c.Weight, &c.MaxScore, &c.Position); err != nil {
			return nil, fmt.Errorf("failed to scan criterion: %w", err)
		}
		criteria = append(criteria, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating criteria: %w", err)
	}

	return criteria, nil
}

// InsertNomination inserts a nomination record
func (d *DB) InsertNomination(ctx context.Context, nomination *db.Nomination) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO nomination (id, cycle_id, nominator_id, nominee_id, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, nomination.ID, nomination.CycleID, nomination.NominatorID, nomination.NomineeID,
		nomination.Reason, nomination.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert nomination: %w", err)
	}
	return nil
}

// HasNominated reports whether a member has already nominated someone in a cycle
func (d *DB) HasNominated(ctx context.Context, cycleID, nominatorID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM nomination WHERE cycle_id = $1 AND nominator_id = $2)
	`, cycleID, nominatorID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check nomination: %w", err)
	}
	return exists, nil
}

// HasNomination reports whether a member has been nominated in a cycle
func (d *DB) HasNomination(ctx context.Context, cycleID, nomineeID string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM nomination WHERE cycle_id = $1 AND nominee_id = $2)
	`, cycleID, nomineeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check nomination: %w", err)
	}
	return exists, nil
}

// InsertApplication inserts a candidate's application
func (d *DB) InsertApplication(ctx context.Context, application *db.Application) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO application (id, cycle_id, member_id, statement, submitted_at)
		VALUES ($1, $2, $3, $4, $5)
	`, application.ID, application.CycleID, application.MemberID,
		application.Statement, application.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// GetApplication retrieves a member's application for a cycle
func (d *DB) GetApplication(ctx context.Context, cycleID, memberID string) (*db.Application, error) {
	var a db.Application
	err := d.pool.QueryRow(ctx, `
		SELECT id, cycle_id, member_id, statement, submitted_at
		FROM application
		WHERE cycle_id = $1 AND member_id = $2
	`, cycleID, memberID).Scan(&a.ID, &a.CycleID, &a.MemberID, &a.Statement, &a.SubmittedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, db.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get application: %w", err)
	}
	return &a, nil
}

// ListApplications retrieves all applications for a cycle
func (d *DB) ListApplications(ctx context.Context, cycleID string) ([]db.Application, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, cycle_id, member_id, statement, submitted_at
		FROM application
		WHERE cycle_id = $1
		ORDER BY submitted_at
	`, cycleID)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	var applications []db.Application
	for rows.Next() {
		var a db.Application
		if err := rows.Scan(&a.ID, &a.CycleID, &a.MemberID, &a.Statement, &a.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		applications = append(applications, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}

	return applications, nil
}

// UpsertEvaluationEntry writes one evaluator's score for one criterion.
// The write is atomic per application+evaluator+criterion, so two evaluators
// scoring the same candidate concurrently never clobber each other
func (d *DB) UpsertEvaluationEntry(ctx context.Context, entry *db.EvaluationEntry) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO evaluation_entry (id, application_id, evaluator_id, criterion_id, raw_score, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (application_id, evaluator_id, criterion_id)
		DO UPDATE SET raw_score = EXCLUDED.raw_score, comment = EXCLUDED.comment
	`, entry.ID, entry.ApplicationID, entry.EvaluatorID, entry.CriterionID,
		entry.RawScore, entry.Comment, entry.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert evaluation entry: %w", err)
	}
	return nil
}

// ListEvaluationEntries retrieves all evaluators' entries for an application
func (d *DB) ListEvaluationEntries(ctx context.Context, applicationID string) ([]db.EvaluationEntry, error) {
	rows, err := d.pool.Query(ctx, `
		SELECT id, application_id, evaluator_id, criterion_id, raw_score, comment, created_at
		FROM evaluation_entry
		WHERE application_id = $1
		ORDER BY evaluator_id, criterion_id
	`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query evaluation entries: %w", err)
	}
	defer rows.Close()

	var entries []db.EvaluationEntry
	for rows.Next() {
		var e db.EvaluationEntry
		if err := rows.Scan(&e.ID, &e.ApplicationID, &e.EvaluatorID, &e.CriterionID,
			&e.RawScore, &e.Comment, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evaluation entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating evaluation entries: %w", err)
	}

	return entries, nil
}
