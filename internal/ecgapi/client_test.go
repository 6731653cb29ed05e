package ecgapi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calderlab/cardia/internal/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL)
}

func TestListSessions(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/ecg-auth/sessions", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"Id": "s-1", "ParticipantId": "alice", "EcgStartTime": "2026-08-20T10:00:00Z",
			 "Features": {"SignalQualityScore": 0.9, "MotionArtifactIndex": 0.1}},
			{"id": "s-2", "participantId": "bob"}
		]`))
	})

	sessions, err := client.ListSessions(context.Background())

	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "alice", sessions[0].ParticipantID)
	assert.Equal(t, model.QualityGood, sessions[0].Features.SignalQuality)
	assert.Equal(t, "s-2", sessions[1].ID)
}

func TestCollectSession_SendsMetadata(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/ecg-auth/collect-session", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		_, _ = w.Write([]byte(`{"Id": "s-3", "ParticipantId": "alice"}`))
	})

	session, err := client.CollectSession(context.Background(), CollectRequest{
		Metadata: &model.SessionMetadata{Activity: "resting"},
		Tags:     []string{"morning"},
	})

	require.NoError(t, err)
	assert.Equal(t, "s-3", session.ID)
}

func TestTrain_PassesMaxPairs(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ecg-auth/train", r.URL.Path)
		assert.Equal(t, "150", r.URL.Query().Get("maxPairsPerUser"))
		_, _ = w.Write([]byte(`{"Accuracy": 0.93, "PairCount": 450}`))
	})

	result, err := client.Train(context.Background(), 150)

	require.NoError(t, err)
	assert.InDelta(t, 0.93, result.Accuracy, 1e-9)
	assert.Equal(t, 450, result.PairCount)
}

func TestVerify_AssignsClientIdentity(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/ecg-auth/verify", r.URL.Path)
		assert.Equal(t, "0.65", r.URL.Query().Get("threshold"))
		_, _ = w.Write([]byte(`{"ParticipantId": "alice", "Score": 0.7, "Passed": true}`))
	})

	attempt, err := client.Verify(context.Background(), 0.65)

	require.NoError(t, err)
	assert.NotEmpty(t, attempt.ID)
	assert.True(t, attempt.Passed)
	// The backend omitted the threshold; the requested one is carried over.
	assert.InDelta(t, 0.65, attempt.Threshold, 1e-9)
	assert.False(t, attempt.Timestamp.IsZero())
}

func TestContinuousVerify_OmitsAbsentFields(t *testing.T) {
	var body []byte
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ = io.ReadAll(r.Body)
		_, _ = w.Write([]byte(`{"Authenticated": false, "Samples": []}`))
	})

	threshold := 0.6
	_, err := client.ContinuousVerify(context.Background(), ContinuousRequest{Threshold: &threshold})

	require.NoError(t, err)
	assert.JSONEq(t, `{"threshold": 0.6}`, string(body))
}

func TestBackendErrorSurfacesBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not trained", http.StatusConflict)
	})

	_, err := client.Verify(context.Background(), 0.5)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "409")
	assert.Contains(t, err.Error(), "model not trained")
}

func TestNewAttemptID_Unique(t *testing.T) {
	a := NewAttemptID()
	b := NewAttemptID()
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
