package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JKKN-Institutions/yi-connect-sub000/pkg/db"
)

func TestCheckInMember_RecordsArrival(t *testing.T) {
	now := time.Now()
	rsvps := newFakeRSVPStore()
	rsvps.confirm("event-1", "member-1")
	checkIns := newFakeCheckInStore()

	checkIn, err := CheckInMember(context.Background(), rsvps, checkIns, zap.NewNop(), "event-1", "member-1", now)
	require.NoError(t, err)

	assert.Equal(t, "member-1", checkIn.MemberID)
	assert.Equal(t, now, checkIn.CheckedInAt)
}

func TestCheckInMember_RequiresRSVP(t *testing.T) {
	_, err := CheckInMember(context.Background(), newFakeRSVPStore(), newFakeCheckInStore(), zap.NewNop(), "event-1", "member-1", time.Now())
	assert.ErrorIs(t, err, ErrNotRSVPd)
}

func TestCheckInMember_WaitlistedRejected(t *testing.T) {
	rsvps := newFakeRSVPStore()
	rsvps.confirm("event-1", "member-1")
	rsvps.rsvps[participationKey("event-1", "member-1")].Status = db.RSVPStatusWaitlisted

	_, err := CheckInMember(context.Background(), rsvps, newFakeCheckInStore(), zap.NewNop(), "event-1", "member-1", time.Now())
	assert.ErrorIs(t, err, ErrNotRSVPd)
}

func TestCheckInMember_Duplicate(t *testing.T) {
	rsvps := newFakeRSVPStore()
	rsvps.confirm("event-1", "member-1")
	checkIns := newFakeCheckInStore()

	_, err := CheckInMember(context.Background(), rsvps, checkIns, zap.NewNop(), "event-1", "member-1", time.Now())
	require.NoError(t, err)

	_, err = CheckInMember(context.Background(), rsvps, checkIns, zap.NewNop(), "event-1", "member-1", time.Now())
	assert.ErrorIs(t, err, ErrAlreadyCheckedIn)
}
