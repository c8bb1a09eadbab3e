package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// ProgramProgress is one outreach program's health-card progress for the
// dashboard.
type ProgramProgress struct {
	db.HealthCardStats

	// PercentOfTarget is issued cards as a percentage of the program target,
	// 0 when no target is set
	PercentOfTarget float64
}

// RegisterProgram creates an outreach program to track health cards under.
func RegisterProgram(ctx context.Context, store db.HealthCardStore, logger *zap.Logger, name, chapter string, targetCount int) (*db.OutreachProgram, error) {
	if name == "" {
		return nil, fmt.Errorf("program name is required")
	}
	if targetCount < 0 {
		return nil, fmt.Errorf("target count must be non-negative, got %d", targetCount)
	}

	program := &db.OutreachProgram{
		ID:          uuid.New().String(),
		Name:        name,
		Chapter:     chapter,
		TargetCount: targetCount,
		CreatedAt:   time.Now(),
	}

	if err := store.InsertProgram(ctx, program); err != nil {
		return nil, fmt.Errorf("failed to insert program: %w", err)
	}

	logger.Info("Outreach program registered",
		zap.String("program_id", program.ID),
		zap.String("name", name),
		zap.Int("target", targetCount))

	return program, nil
}

// RegisterHealthCard records a beneficiary under a program in pending status.
func RegisterHealthCard(ctx context.Context, store db.HealthCardStore, logger *zap.Logger, programID, beneficiaryName string) (*db.HealthCard, error) {
	if beneficiaryName == "" {
		return nil, fmt.Errorf("beneficiary name is required")
	}

	card := &db.HealthCard{
		ID:              uuid.New().String(),
		ProgramID:       programID,
		BeneficiaryName: beneficiaryName,
		Status:          db.HealthCardStatusPending,
		CreatedAt:       time.Now(),
	}

	if err := store.InsertHealthCard(ctx, card); err != nil {
		return nil, fmt.Errorf("failed to insert health card: %w", err)
	}

	logger.Info("Health card registered",
		zap.String("card_id", card.ID),
		zap.String("program_id", programID))

	return card, nil
}

// IssueHealthCard marks a pending card as issued.
func IssueHealthCard(ctx context.Context, store db.HealthCardStore, logger *zap.Logger, cardID string, now time.Time) error {
	if err := store.MarkHealthCardIssued(ctx, cardID, now); err != nil {
		return fmt.Errorf("failed to issue health card: %w", err)
	}

	logger.Info("Health card issued", zap.String("card_id", cardID))
	return nil
}

// HealthCardDashboard aggregates per-program progress for the admin
// dashboard.
func HealthCardDashboard(ctx context.Context, store db.HealthCardStore, logger *zap.Logger) ([]ProgramProgress, error) {
	stats, err := store.GetHealthCardStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch health card stats: %w", err)
	}

	progress := make([]ProgramProgress, 0, len(stats))
	for _, s := range stats {
		p := ProgramProgress{HealthCardStats: s}
		if s.TargetCount > 0 {
			p.PercentOfTarget = float64(s.Issued) / float64(s.TargetCount) * 100
		}
		progress = append(progress, p)
	}

	logger.Debug("Health card dashboard computed", zap.Int("programs", len(progress)))

	return progress, nil
}
