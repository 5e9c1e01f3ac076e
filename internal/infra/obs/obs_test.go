package obs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestRequestIDPropagates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var buf bytes.Buffer
	mw := Middleware{Logger: newLogger(&buf, "prod", slog.LevelInfo)}
	r := gin.New()
	r.Use(mw.RequestID(), mw.LoggerMiddleware())
	var seen string
	r.GET("/ping", func(c *gin.Context) {
		seen = RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if seen != "req-1" || rec.Header().Get("X-Request-ID") != "req-1" {
		t.Fatalf("request id not propagated: ctx=%q header=%q", seen, rec.Header().Get("X-Request-ID"))
	}
	if !strings.Contains(buf.String(), `"request_id":"req-1"`) {
		t.Fatalf("expected request id in log line, got %s", buf.String())
	}
}

func TestReadyzReportsFailingChecks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := HealthHandlers{Checks: map[string]Check{
		"db":    func(context.Context) error { return nil },
		"kafka": func(context.Context) error { return errors.New("no brokers") },
	}}
	r := gin.New()
	r.GET("/readyz", h.Readyz)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "no brokers") {
		t.Fatalf("expected failing check in body, got %s", rec.Body.String())
	}
}
