package service

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aakseva/internal/audit"
	"aakseva/internal/media"
	"aakseva/internal/volunteer/store"
	dErrors "aakseva/pkg/domain-errors"
)

func newTestService(t *testing.T) (*Service, *store.InMemory, *audit.InMemoryStore, *media.DiskStore) {
	t.Helper()
	vs := store.NewInMemory()
	disk, err := media.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	auditStore := audit.NewInMemoryStore()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	recorder := audit.NewRecorder(auditStore, logger)
	// nil metrics keeps tests from touching the global prometheus registry
	svc := New(vs, disk, recorder, nil, logger)
	return svc, vs, auditStore, disk
}

func validInput() RegisterInput {
	return RegisterInput{
		Name:     "Ramesh Kumar",
		AAKNo:    "AAK-1001",
		MobileNo: "9876543210",
		Address:  "12 Gandhi Road, Jaipur",
	}
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("assigns sequential unique ids", func(t *testing.T) {
		svc, _, auditStore, _ := newTestService(t)

		first, err := svc.Register(ctx, validInput())
		require.NoError(t, err)
		assert.Equal(t, int64(1), first.UniqueID)

		in := validInput()
		in.AAKNo = "AAK-1002"
		second, err := svc.Register(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, int64(2), second.UniqueID)

		events, err := auditStore.List(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, audit.ActionVolunteerRegistered, events[0].Action)
	})

	t.Run("duplicate AAK number is a bad request", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)

		_, err := svc.Register(ctx, validInput())
		require.NoError(t, err)

		_, err = svc.Register(ctx, validInput())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeBadRequest, dErrors.GetCode(err))
		assert.Contains(t, err.Error(), "AAK number")
	})

	t.Run("invalid input never persists", func(t *testing.T) {
		svc, vs, _, _ := newTestService(t)

		in := validInput()
		in.MobileNo = "12345"
		_, err := svc.Register(ctx, in)
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeBadRequest, dErrors.GetCode(err))

		count, err := vs.CountAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("stores uploaded image and records its url", func(t *testing.T) {
		svc, _, _, disk := newTestService(t)

		in := validInput()
		in.Image = strings.NewReader("fake-png-bytes")
		in.ImageFilename = "photo.PNG"

		v, err := svc.Register(ctx, in)
		require.NoError(t, err)
		require.True(t, strings.HasPrefix(v.ImageURL, media.PublicPrefix))

		name := strings.TrimPrefix(v.ImageURL, media.PublicPrefix)
		data, err := os.ReadFile(filepath.Join(disk.Dir(), name))
		require.NoError(t, err)
		assert.Equal(t, "fake-png-bytes", string(data))
	})

	t.Run("discards image when the record is rejected", func(t *testing.T) {
		svc, _, _, disk := newTestService(t)

		_, err := svc.Register(ctx, validInput())
		require.NoError(t, err)

		in := validInput()
		in.Image = strings.NewReader("orphan")
		in.ImageFilename = "dup.jpg"
		_, err = svc.Register(ctx, in)
		require.Error(t, err)

		entries, err := os.ReadDir(disk.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	created, err := svc.Register(ctx, validInput())
	require.NoError(t, err)

	t.Run("returns the record", func(t *testing.T) {
		got, err := svc.Get(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.AAKNo, got.AAKNo)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		_, err := svc.Get(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.GetCode(err))
	})
}

func TestList(t *testing.T) {
	ctx := context.Background()
	svc, _, _, _ := newTestService(t)

	for _, aak := range []string{"AAK-1", "AAK-2", "AAK-3"} {
		in := validInput()
		in.AAKNo = aak
		_, err := svc.Register(ctx, in)
		require.NoError(t, err)
	}

	vs, err := svc.List(ctx)
	require.NoError(t, err)
	require.Len(t, vs, 3)
	// newest first
	assert.Equal(t, "AAK-3", vs[0].AAKNo)
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes record and image", func(t *testing.T) {
		svc, vs, auditStore, disk := newTestService(t)

		in := validInput()
		in.Image = strings.NewReader("bytes")
		in.ImageFilename = "p.jpg"
		created, err := svc.Register(ctx, in)
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, created.ID))

		count, err := vs.CountAll(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)

		entries, err := os.ReadDir(disk.Dir())
		require.NoError(t, err)
		assert.Empty(t, entries)

		events, err := auditStore.List(ctx)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, audit.ActionVolunteerDeleted, events[1].Action)
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		svc, _, _, _ := newTestService(t)
		err := svc.Delete(ctx, uuid.New())
		require.Error(t, err)
		assert.Equal(t, dErrors.CodeNotFound, dErrors.GetCode(err))
	})
}
