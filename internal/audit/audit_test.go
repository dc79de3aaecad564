package audit

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aakseva/pkg/requestcontext"
)

func TestRecorderEnrichesFromContext(t *testing.T) {
	store := NewInMemoryStore()
	rec := NewRecorder(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)
	ctx = requestcontext.WithRequestID(ctx, "req-1")
	ctx = requestcontext.WithClientMetadata(ctx, "203.0.113.9", "curl/8.0")

	rec.Record(ctx, ActionRoleAssigned, "admin@aakseva.org", "vol-1", "president")

	events, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, ActionRoleAssigned, e.Action)
	assert.Equal(t, "admin@aakseva.org", e.ActorEmail)
	assert.Equal(t, "vol-1", e.SubjectID)
	assert.Equal(t, "president", e.Detail)
	assert.Equal(t, "req-1", e.RequestID)
	assert.Equal(t, "203.0.113.9", e.ClientIP)
	assert.Equal(t, "curl/8.0", e.UserAgent)
	assert.Equal(t, now, e.OccurredAt)
	assert.NotZero(t, e.ID)
}

func TestNilRecorderIsSafe(t *testing.T) {
	var rec *Recorder
	rec.Record(context.Background(), ActionAdminLoggedIn, "admin@aakseva.org", "", "")
}
