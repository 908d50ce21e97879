package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusTeapot, map[string]string{"hello": "world"})

	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusTeapot)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}
	if !strings.Contains(rec.Body.String(), `"hello":"world"`) {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, http.StatusBadRequest, "validation_error", "something is off")

	var body errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error != "validation_error" || body.Message != "something is off" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantErr     bool
	}{
		{"valid", "application/json", `{"symbol":"ACME"}`, false},
		{"charset suffix accepted", "application/json; charset=utf-8", `{"symbol":"ACME"}`, false},
		{"missing content type", "", `{"symbol":"ACME"}`, true},
		{"wrong content type", "text/plain", `{"symbol":"ACME"}`, true},
		{"malformed json", "application/json", `{"symbol":`, true},
		{"unknown field", "application/json", `{"symbol":"ACME","bogus":1}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			var v struct {
				Symbol string `json:"symbol"`
			}
			err := ParseJSON(req, &v)
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if v.Symbol != "ACME" {
					t.Errorf("symbol = %q, want ACME", v.Symbol)
				}
			}
		})
	}
}
