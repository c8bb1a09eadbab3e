package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

// ErrRequestResolved indicates the request was already approved or rejected
var ErrRequestResolved = errors.New("request is already resolved")

// SubmitRequest records a member's administrative request in the queue.
func SubmitRequest(ctx context.Context, store db.RequestStore, logger *zap.Logger, memberID, requestType, details string) (*db.MemberRequest, error) {
	if requestType == "" {
		return nil, fmt.Errorf("request type is required")
	}

	request := &db.MemberRequest{
		ID:        uuid.New().String(),
		MemberID:  memberID,
		Type:      requestType,
		Details:   details,
		Status:    db.RequestStatusOpen,
		CreatedAt: time.Now(),
	}

	if err := store.InsertRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to insert request: %w", err)
	}

	logger.Info("Member request submitted",
		zap.String("request_id", request.ID),
		zap.String("member_id", memberID),
		zap.String("type", requestType))

	return request, nil
}

// ResolveRequest approves or rejects an open member request with a note.
func ResolveRequest(ctx context.Context, store db.RequestStore, logger *zap.Logger, requestID, status, note string, now time.Time) error {
	if status != db.RequestStatusApproved && status != db.RequestStatusRejected {
		return fmt.Errorf("resolution status must be %q or %q, got %q",
			db.RequestStatusApproved, db.RequestStatusRejected, status)
	}

	request, err := store.GetRequest(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to fetch request: %w", err)
	}
	if request.Status != db.RequestStatusOpen {
		return ErrRequestResolved
	}

	if err := store.ResolveRequest(ctx, requestID, status, note, now); err != nil {
		return fmt.Errorf("failed to resolve request: %w", err)
	}

	logger.Info("Member request resolved",
		zap.String("request_id", requestID),
		zap.String("status", status))

	return nil
}

// OpenRequests returns the unresolved request queue in arrival order.
func OpenRequests(ctx context.Context, store db.RequestStore, logger *zap.Logger) ([]db.MemberRequest, error) {
	requests, err := store.ListRequests(ctx, db.RequestStatusOpen)
	if err != nil {
		return nil, fmt.Errorf("failed to list open requests: %w", err)
	}

	logger.Debug("Open requests fetched", zap.Int("count", len(requests)))

	return requests, nil
}
