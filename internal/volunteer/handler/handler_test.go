package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aakseva/internal/audit"
	"aakseva/internal/media"
	"aakseva/internal/volunteer/handler"
	"aakseva/internal/volunteer/service"
	"aakseva/internal/volunteer/store"
)

func newTestRouter(t *testing.T) *chi.Mux {
	t.Helper()
	disk, err := media.NewDiskStore(t.TempDir())
	require.NoError(t, err)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := service.New(store.NewInMemory(), disk, audit.NewRecorder(audit.NewInMemoryStore(), logger), nil, logger)

	r := chi.NewRouter()
	handler.New(svc, logger).Register(r)
	return r
}

func registerJSON(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/volunteers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var envelope map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

const validBody = `{"name":"Ramesh Kumar","aakNo":"AAK-1001","mobileNo":"9876543210","address":"12 Gandhi Road"}`

func TestCreateVolunteer(t *testing.T) {
	t.Run("json registration", func(t *testing.T) {
		router := newTestRouter(t)

		rec := registerJSON(t, router, validBody)
		require.Equal(t, http.StatusCreated, rec.Code)

		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, true, envelope["success"])
		data := envelope["data"].(map[string]any)
		assert.Equal(t, "AAK-1001", data["aakNo"])
		assert.Equal(t, float64(1), data["uniqueId"])
		assert.Equal(t, "employee", data["role"])
	})

	t.Run("multipart registration with image", func(t *testing.T) {
		router := newTestRouter(t)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("name", "Suresh Patel"))
		require.NoError(t, mw.WriteField("aakNo", "AAK-2002"))
		require.NoError(t, mw.WriteField("mobileNo", "9123456789"))
		require.NoError(t, mw.WriteField("address", "4 Nehru Street"))
		part, err := mw.CreateFormFile("image", "photo.jpg")
		require.NoError(t, err)
		_, err = part.Write([]byte("jpeg-bytes"))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/volunteers", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.True(t, strings.HasPrefix(data["imageUrl"].(string), media.PublicPrefix))
	})

	t.Run("oversized upload is rejected", func(t *testing.T) {
		router := newTestRouter(t)

		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		require.NoError(t, mw.WriteField("name", "Ramesh"))
		require.NoError(t, mw.WriteField("aakNo", "AAK-9999"))
		require.NoError(t, mw.WriteField("mobileNo", "9876543210"))
		require.NoError(t, mw.WriteField("address", "12 Gandhi Road"))
		part, err := mw.CreateFormFile("image", "huge.jpg")
		require.NoError(t, err)
		_, err = part.Write(bytes.Repeat([]byte("x"), 11<<20))
		require.NoError(t, err)
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/volunteers", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeEnvelope(t, rec)["message"], "too large")
	})

	t.Run("duplicate aak number", func(t *testing.T) {
		router := newTestRouter(t)

		require.Equal(t, http.StatusCreated, registerJSON(t, router, validBody).Code)

		rec := registerJSON(t, router, validBody)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		envelope := decodeEnvelope(t, rec)
		assert.Equal(t, false, envelope["success"])
		assert.Contains(t, envelope["message"], "AAK number")
	})

	t.Run("invalid mobile number", func(t *testing.T) {
		router := newTestRouter(t)

		rec := registerJSON(t, router, `{"name":"X","aakNo":"AAK-1","mobileNo":"123","address":"Y"}`)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, decodeEnvelope(t, rec)["message"], "10 digits")
	})

	t.Run("malformed body", func(t *testing.T) {
		router := newTestRouter(t)

		rec := registerJSON(t, router, "{not json")
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestListVolunteers(t *testing.T) {
	router := newTestRouter(t)

	require.Equal(t, http.StatusCreated, registerJSON(t, router, validBody).Code)
	require.Equal(t, http.StatusCreated, registerJSON(t, router,
		`{"name":"Suresh","aakNo":"AAK-2","mobileNo":"9000000000","address":"Street"}`).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/volunteers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, float64(2), envelope["count"])
	assert.Len(t, envelope["data"], 2)
}

func TestGetVolunteer(t *testing.T) {
	router := newTestRouter(t)

	created := decodeEnvelope(t, registerJSON(t, router, validBody))["data"].(map[string]any)

	t.Run("found", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/volunteers/"+created["id"].(string), nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		data := decodeEnvelope(t, rec)["data"].(map[string]any)
		assert.Equal(t, "AAK-1001", data["aakNo"])
	})

	t.Run("unknown id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/volunteers/1e9f0a54-0000-0000-0000-000000000000", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("malformed id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/volunteers/not-a-uuid", nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestDeleteVolunteer(t *testing.T) {
	router := newTestRouter(t)

	created := decodeEnvelope(t, registerJSON(t, router, validBody))["data"].(map[string]any)
	id := created["id"].(string)

	req := httptest.NewRequest(http.MethodDelete, "/api/volunteers/"+id, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeEnvelope(t, rec)["success"])

	req = httptest.NewRequest(http.MethodDelete, "/api/volunteers/"+id, nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVolunteerHealth(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/volunteers/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
