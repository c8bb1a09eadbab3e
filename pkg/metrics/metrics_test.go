package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorders_RegisterAndGather(t *testing.T) {
	RecordEventCreated()
	RecordRSVP("confirmed")
	RecordRSVP("waitlisted")
	RecordCheckIn()
	RecordFeedback()
	RecordEventPublished()
	RecordMatchRun(25, 3.5)
	RecordFactorClamp()
	RecordMatchError()
	RecordAssignmentsSaved(5)
	RecordEvaluation()
	RecordEvaluationError()
	RecordHTTPRequest("/api/events", "GET", "200", 12.0)

	families, err := GetRegistry().Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}

	assert.True(t, names["yi_connect_events_created_total"])
	assert.True(t, names["yi_connect_rsvps_recorded_total"])
	assert.True(t, names["yi_connect_match_latency_milliseconds"])
	assert.True(t, names["yi_connect_http_requests_total"])
}
