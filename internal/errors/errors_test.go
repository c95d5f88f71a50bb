package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		err  *AppError
		want int
	}{
		{Validation("bad season"), http.StatusBadRequest},
		{NotFound("no chart"), http.StatusNotFound},
		{RateLimit("slow down"), http.StatusTooManyRequests},
		{ServiceUnavailable("not loaded"), http.StatusServiceUnavailable},
		{DataLoad(io.EOF, "read csv"), http.StatusServiceUnavailable},
		{Internal("boom"), http.StatusInternalServerError},
		{New(ErrorCode("SOMETHING_ELSE"), "?"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.err.Code), func(t *testing.T) {
			if tt.err.StatusCode != tt.want {
				t.Errorf("StatusCode = %d, want %d", tt.err.StatusCode, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := DataLoad(io.ErrUnexpectedEOF, "read csv")

	if !stderrors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("expected wrapped cause to be reachable")
	}
	if got := err.Error(); got != "DATA_LOAD_ERROR: read csv (caused by: unexpected EOF)" {
		t.Errorf("Error() = %q", got)
	}
	if got := Validation("x").Error(); got != "VALIDATION_ERROR: x" {
		t.Errorf("Error() = %q", got)
	}
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("load: %w", DataLoad(io.EOF, "read csv"))

	if !HasCode(wrapped, CodeDataLoad) {
		t.Error("HasCode should see through fmt wrapping")
	}
	if HasCode(wrapped, CodeValidation) {
		t.Error("HasCode matched the wrong code")
	}
	if HasCode(io.EOF, CodeInternal) {
		t.Error("plain errors carry no code")
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, quietLogger(), Validation(`unknown season "inverno"`), "req-1")

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}

	var resp struct {
		Success bool `json:"success"`
		Error   struct {
			Code      string `json:"code"`
			Message   string `json:"message"`
			RequestID string `json:"request_id"`
		} `json:"error"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Success {
		t.Error("success should be false")
	}
	if resp.Error.Code != "VALIDATION_ERROR" || resp.Error.RequestID != "req-1" {
		t.Errorf("unexpected error body %+v", resp.Error)
	}
}

func TestWriteError_PlainError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, quietLogger(), io.EOF, "")

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want %d", w.Code, http.StatusInternalServerError)
	}
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()
	WriteSuccess(w, map[string]int{"rows": 2})

	var resp struct {
		Success bool           `json:"success"`
		Data    map[string]int `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Data["rows"] != 2 {
		t.Errorf("unexpected body %+v", resp)
	}
}
