package main

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"billingBack/internal/handlers"
	"billingBack/internal/models"
	"billingBack/utils"
)

func newTestApp(t *testing.T) *application {
	t.Helper()
	tokens, err := utils.NewManager("test-secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return &application{
		infoLog:  log.New(io.Discard, "", 0),
		errorLog: log.New(io.Discard, "", 0),
		tokens:   tokens,
	}
}

func echoIdentity(w http.ResponseWriter, r *http.Request) {
	id, role, ok := handlers.Identity(r.Context())
	if !ok {
		w.WriteHeader(http.StatusTeapot)
		return
	}
	w.Write([]byte(role + ":" + strconv.FormatInt(id, 10)))
}

func TestRequireRole(t *testing.T) {
	app := newTestApp(t)
	adminToken, _ := app.tokens.NewAccessToken(1, models.RoleAdmin, "root")
	customerToken, _ := app.tokens.NewAccessToken(42, models.RoleCustomer, "janed")

	tests := []struct {
		name     string
		roles    []string
		header   string
		query    string
		wantCode int
		wantBody string
	}{
		{"missing token", []string{models.RoleAdmin}, "", "", http.StatusUnauthorized, ""},
		{"garbage token", nil, "Bearer nope", "", http.StatusUnauthorized, ""},
		{"wrong role", []string{models.RoleAdmin}, "Bearer " + customerToken, "", http.StatusForbidden, ""},
		{"admin", []string{models.RoleAdmin}, "Bearer " + adminToken, "", http.StatusOK, "admin:1"},
		{"any role", nil, "Bearer " + customerToken, "", http.StatusOK, "customer:42"},
		{"query token", []string{models.RoleCustomer}, "", customerToken, http.StatusOK, "customer:42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := app.requireRole(tt.roles...)(http.HandlerFunc(echoIdentity))
			target := "/x"
			if tt.query != "" {
				target += "?token=" + tt.query
			}
			req := httptest.NewRequest(http.MethodGet, target, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d (%s)", rr.Code, tt.wantCode, rr.Body.String())
			}
			if tt.wantBody != "" && rr.Body.String() != tt.wantBody {
				t.Errorf("body = %q, want %q", rr.Body.String(), tt.wantBody)
			}
			if tt.wantCode >= 400 && !strings.Contains(rr.Body.String(), `"success":false`) {
				t.Errorf("error body = %q", rr.Body.String())
			}
		})
	}
}

func TestRecoverPanic(t *testing.T) {
	app := newTestApp(t)
	var logged bytes.Buffer
	app.errorLog = log.New(&logged, "", 0)

	h := app.recoverPanic(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("status = %d", rr.Code)
	}
	if rr.Header().Get("Connection") != "close" {
		t.Error("connection not closed")
	}
	if !strings.Contains(logged.String(), "boom") {
		t.Errorf("panic not logged: %q", logged.String())
	}
}

func TestLogRequestSetsRequestID(t *testing.T) {
	app := newTestApp(t)
	h := app.logRequest(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Header().Get(requestIDHeader) == "" {
		t.Error("request id not generated")
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "abc")
	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if got := rr.Header().Get(requestIDHeader); got != "abc" {
		t.Errorf("request id = %q", got)
	}
}
