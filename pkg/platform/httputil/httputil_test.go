package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	dErrors "aakseva/pkg/domain-errors"
)

func TestWriteError(t *testing.T) {
	t.Run("internal error hides detail", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.Wrap(errors.New("pq: connection refused"), dErrors.CodeInternal, "failed to save volunteer"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}

		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["success"] != false {
			t.Fatalf("expected success false, got %v", body["success"])
		}
		if body["message"] != "internal server error" {
			t.Fatalf("expected generic message for internal errors, got %q", body["message"])
		}
	})

	t.Run("bad request surfaces message", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, dErrors.New(dErrors.CodeBadRequest, "mobile number must be exactly 10 digits"))

		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected status %d, got %d", http.StatusBadRequest, w.Code)
		}

		var body map[string]any
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if body["message"] != "mobile number must be exactly 10 digits" {
			t.Fatalf("expected validation message to be returned, got %q", body["message"])
		}
	})

	t.Run("uncoded error maps to 500", func(t *testing.T) {
		w := httptest.NewRecorder()
		WriteError(w, errors.New("boom"))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
		}
	})
}

func TestWriteList(t *testing.T) {
	w := httptest.NewRecorder()
	WriteList(w, 2, []string{"a", "b"})

	var body struct {
		Success bool     `json:"success"`
		Count   int      `json:"count"`
		Data    []string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Success || body.Count != 2 || len(body.Data) != 2 {
		t.Fatalf("unexpected list envelope: %+v", body)
	}
}
