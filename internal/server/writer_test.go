package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkrassel/territory-app/internal/app"
)

func testLogWriter(w http.ResponseWriter) *LogWriter {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	return NewLogWriter(log.New(io.Discard, "", 0), w, r)
}

func TestLogWriterWrite(t *testing.T) {
	rr := httptest.NewRecorder()

	type body struct {
		Message string `json:"message"`
	}

	testLogWriter(rr).Write(Response{
		Status: http.StatusCreated,
		Body:   body{Message: "done"},
	})

	if rr.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusCreated)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q, want application/json", ct)
	}

	var got body
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal body: %v", err)
	}
	if got.Message != "done" {
		t.Errorf("message = %q, want %q", got.Message, "done")
	}
}

func TestLogWriterWriteRaw(t *testing.T) {
	rr := httptest.NewRecorder()

	wkt := "POLYGON ((0 0, 1 0, 1 1, 0 0))"
	testLogWriter(rr).WriteRaw(RawResponse{
		Status:      http.StatusOK,
		ContentType: "text/plain; charset=utf-8",
		Body:        []byte(wkt),
	})

	if rr.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rr.Code, http.StatusOK)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q, want text/plain; charset=utf-8", ct)
	}
	if rr.Body.String() != wkt {
		t.Errorf("body = %q, want %q", rr.Body.String(), wkt)
	}
}

func TestLogWriterWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{
			name:       "plain error hides details",
			err:        errors.New("pq: connection refused"),
			wantStatus: http.StatusInternalServerError,
			wantMsg:    "Something went wrong",
		},
		{
			name: "server response error passes through",
			err: &app.ServerResponseError{
				Err:        errors.New("zone missing"),
				Msg:        "zone Z1 not found",
				StatusCode: http.StatusNotFound,
			},
			wantStatus: http.StatusNotFound,
			wantMsg:    "zone Z1 not found",
		},
		{
			name: "wrapped server response error",
			err: fmt.Errorf("handling request: %w", &app.ServerResponseError{
				Err:        errors.New("no cookie"),
				Msg:        "Please login",
				StatusCode: http.StatusUnauthorized,
			}),
			wantStatus: http.StatusUnauthorized,
			wantMsg:    "Please login",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			testLogWriter(rr).WriteError(tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rr.Code, tt.wantStatus)
			}

			var got struct {
				ErrorMsg string `json:"error_msg"`
			}
			if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
				t.Fatalf("unmarshal body: %v", err)
			}
			if got.ErrorMsg != tt.wantMsg {
				t.Errorf("error_msg = %q, want %q", got.ErrorMsg, tt.wantMsg)
			}
		})
	}
}
