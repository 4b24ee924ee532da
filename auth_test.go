package main

import (
	"bytes"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestLogin(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		wantCode int
	}{
		{"valid credentials", `{"username":"alice","password":"correct horse"}`, http.StatusOK},
		{"wrong password", `{"username":"alice","password":"battery staple"}`, http.StatusUnauthorized},
		{"unknown user", `{"username":"mallory","password":"correct horse"}`, http.StatusUnauthorized},
		{"invalid body", `username=alice`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupHandlerTest(t)

			w := env.doAs("", http.MethodPost, "/api/login", tt.body)
			expectStatus(t, w, tt.wantCode)
			if tt.wantCode != http.StatusOK {
				return
			}

			resp := decode[struct {
				Token  string `json:"token"`
				UserID int    `json:"user_id"`
			}](t, w)
			if resp.Token != env.token || resp.UserID != env.userID {
				t.Errorf("unexpected login response %+v", resp)
			}
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	env := setupHandlerTest(t)

	tests := []struct {
		name     string
		header   string
		path     string
		wantCode int
	}{
		{"bearer token", "Bearer " + env.token, "/api/targets", http.StatusOK},
		{"query token outside websocket", "", "/api/targets?token=" + env.token, http.StatusUnauthorized},
		{"query token on records", "", "/api/records?token=" + env.token, http.StatusUnauthorized},
		{"no credentials", "", "/api/targets", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + env.token, "/api/targets", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", "/api/targets", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := newRequest(http.MethodGet, tt.path, "")
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := serve(env.router, req)
			expectStatus(t, w, tt.wantCode)
		})
	}
}

func TestRedactToken(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/records", "/api/records"},
		{"/api/summary?period=week", "/api/summary?period=week"},
		{"/api/ws?token=abc-123", "/api/ws?token=REDACTED"},
		{"/api/ws?period=today&token=abc-123", "/api/ws?period=today&token=REDACTED"},
	}
	for _, tt := range tests {
		if got := redactToken(tt.path); got != tt.want {
			t.Errorf("redactToken(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestAccessLog_OmitsToken(t *testing.T) {
	env := setupHandlerTest(t)

	var buf bytes.Buffer
	prev := gin.DefaultWriter
	gin.DefaultWriter = &buf
	defer func() { gin.DefaultWriter = prev }()

	router := newRouter(env.handler)
	for _, path := range []string{"/api/ws?token=" + env.token, "/api/records?token=" + env.token} {
		serve(router, newRequest(http.MethodGet, path, ""))
	}

	logged := buf.String()
	if strings.Contains(logged, env.token) {
		t.Errorf("access log leaked the token:\n%s", logged)
	}
	if !strings.Contains(logged, "token=REDACTED") {
		t.Errorf("expected redacted paths in log, got:\n%s", logged)
	}
}

func TestAccessLogFormatter(t *testing.T) {
	line := accessLogFormatter(gin.LogFormatterParams{
		TimeStamp:  time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC),
		StatusCode: http.StatusUnauthorized,
		ClientIP:   "127.0.0.1",
		Method:     http.MethodGet,
		Path:       "/api/records?token=secret",
	})
	if strings.Contains(line, "secret") || !strings.Contains(line, "401") {
		t.Errorf("unexpected log line %q", line)
	}
}
