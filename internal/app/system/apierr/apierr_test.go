package apierr_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/campusgrid/campusgrid/internal/app/system/apierr"
	"go.uber.org/zap"
)

func decodeError(t *testing.T, body []byte) (code, message string) {
	t.Helper()
	var env struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		t.Fatalf("response is not a valid error envelope: %v", err)
	}
	return env.Error.Code, env.Error.Message
}

func TestWriteError_Envelope(t *testing.T) {
	rec := httptest.NewRecorder()
	apierr.WriteError(rec, 400, apierr.CodeOutsideGeofence, "Location is outside the campus boundary.")

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	code, msg := decodeError(t, rec.Body.Bytes())
	if code != apierr.CodeOutsideGeofence {
		t.Errorf("code = %q, want %q", code, apierr.CodeOutsideGeofence)
	}
	if msg == "" {
		t.Error("message is empty")
	}
}

func TestErrorLogger_LogBadRequest(t *testing.T) {
	el := apierr.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/location", nil)

	el.LogBadRequest(rec, req, "bad coords", errors.New("boom"), apierr.CodeInvalidCoordinates, "Invalid coordinates.")

	if rec.Code != 400 {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	code, _ := decodeError(t, rec.Body.Bytes())
	if code != apierr.CodeInvalidCoordinates {
		t.Errorf("code = %q, want %q", code, apierr.CodeInvalidCoordinates)
	}
}

func TestErrorLogger_LogServerError(t *testing.T) {
	el := apierr.NewErrorLogger(zap.NewNop())
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/location", nil)

	el.LogServerError(rec, req, "write failed", errors.New("boom"), "Could not save location.")

	if rec.Code != 500 {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	code, _ := decodeError(t, rec.Body.Bytes())
	if code != apierr.CodePersistenceFailed {
		t.Errorf("code = %q, want %q", code, apierr.CodePersistenceFailed)
	}
}
