package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"mealmind/internal/apperr"
)

func TestWriteErrorMapsKinds(t *testing.T) {
	cases := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{apperr.Validation("bad input"), http.StatusBadRequest, "VALIDATION"},
		{apperr.NotFound("missing"), http.StatusNotFound, "NOT_FOUND"},
		{apperr.Constraint("conflict"), http.StatusConflict, "CONSTRAINT_VIOLATION"},
		{apperr.External(errors.New("boom"), "llm down"), http.StatusBadGateway, "EXTERNAL_SERVICE"},
		{errors.New("plain"), http.StatusInternalServerError, "INTERNAL"},
	}

	for _, tc := range cases {
		rec := httptest.NewRecorder()
		writeError(rec, tc.err)

		if rec.Code != tc.wantStatus {
			t.Errorf("writeError(%v): expected status %d, got %d", tc.err, tc.wantStatus, rec.Code)
		}

		var body envelope
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("Failed to decode response: %v", err)
		}
		if body.Success {
			t.Errorf("writeError(%v): expected success=false", tc.err)
		}
		if body.Error == nil || body.Error.Code != tc.wantCode {
			t.Errorf("writeError(%v): expected code %s, got %+v", tc.err, tc.wantCode, body.Error)
		}
	}
}

func TestWriteErrorWrappedAppError(t *testing.T) {
	wrapped := fmt.Errorf("handling request: %w", apperr.NotFound("recipe x not found"))
	rec := httptest.NewRecorder()
	writeError(rec, wrapped)

	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected wrapped app errors unwrapped, got status %d", rec.Code)
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, errors.New("password=hunter2 leaked in error"))

	var body envelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Error.Message != "internal server error" {
		t.Errorf("Expected an opaque message for unknown errors, got %q", body.Error.Message)
	}
}

func TestWriteData(t *testing.T) {
	rec := httptest.NewRecorder()
	writeData(rec, http.StatusCreated, map[string]string{"id": "abc"})

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected application/json, got %q", ct)
	}

	var body envelope
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !body.Success {
		t.Error("Expected success=true")
	}
}
