package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	events []Event
	err    error
}

func (r *recordingNotifier) Notify(ctx context.Context, event Event) error {
	r.events = append(r.events, event)
	return r.err
}

func TestNotifierContextRoundTrip(t *testing.T) {
	rec := &recordingNotifier{}
	ctx := WithNotifier(context.Background(), rec)

	got := NotifierFromContext(ctx)
	require.NotNil(t, got)

	err := got.Notify(ctx, Event{Type: EventRunStarted, RunID: "r1"})
	require.NoError(t, err)
	require.Len(t, rec.events, 1)
	assert.Equal(t, "r1", rec.events[0].RunID)
}

func TestNotifierFromContextMissing(t *testing.T) {
	assert.Nil(t, NotifierFromContext(context.Background()))
}

func TestWebhookNotifier(t *testing.T) {
	var got Event
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "secret", r.Header.Get("X-Token"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, map[string]string{"X-Token": "secret"})
	event := Event{
		Type:      EventRunCompleted,
		RunID:     "r2",
		Flow:      "check",
		Severity:  SeverityInfo,
		Timestamp: time.Now(),
	}
	require.NoError(t, n.Notify(context.Background(), event))
	assert.Equal(t, EventRunCompleted, got.Type)
	assert.Equal(t, "check", got.Flow)
}

func TestWebhookNotifierServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, nil)
	err := n.Notify(context.Background(), Event{Type: EventRunFailed})
	assert.Error(t, err)
}

func TestMultiNotifierContinuesOnError(t *testing.T) {
	failing := &recordingNotifier{err: errors.New("boom")}
	ok := &recordingNotifier{}

	n := NewMultiNotifier(failing, ok)
	err := n.Notify(context.Background(), Event{Type: EventRunFailed, Severity: SeverityError})

	assert.Error(t, err)
	assert.Len(t, failing.events, 1)
	assert.Len(t, ok.events, 1)
}

func TestLogNotifier(t *testing.T) {
	n := NewLogNotifier(nil)
	err := n.Notify(context.Background(), Event{
		Type:     EventRunCompleted,
		Severity: SeverityInfo,
		Message:  "check flow finished",
	})
	assert.NoError(t, err)
}
