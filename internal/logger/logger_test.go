package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitializeLoggerRejectsUnknownLevel(t *testing.T) {
	restore := ReplaceLogger(zap.NewNop())
	t.Cleanup(restore)

	if err := InitializeLogger("development", "loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if err := InitializeLogger("production", "warn"); err != nil {
		t.Fatalf("InitializeLogger() error = %v", err)
	}
	if Logger.Core().Enabled(zap.InfoLevel) {
		t.Fatal("expected info level to be disabled at warn")
	}
}

func TestGinMiddlewareLogsRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)
	restore := ReplaceLogger(zap.New(core))
	t.Cleanup(restore)

	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected one log entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Level != zap.WarnLevel {
		t.Fatalf("level = %s, want warn", entry.Level)
	}
	fields := entry.ContextMap()
	if fields["path"] != "/missing" {
		t.Fatalf("path field = %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("status field = %v", fields["status"])
	}
}
