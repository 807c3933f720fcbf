package logger

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// captureLogs points the package logger at a buffer for the duration of a test.
func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := log
	log = zerolog.New(&buf).With().Timestamp().Logger()
	t.Cleanup(func() { log = prev })
	return &buf
}

func TestGinLogger_RedactsAuthQuery(t *testing.T) {
	buf := captureLogs(t)

	router := gin.New()
	router.Use(GinLogger())
	router.GET("/auth/google/callback", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/auth/google/callback?code=4/0AdQt-secret-code", nil)
	router.ServeHTTP(w, req)

	out := buf.String()
	if strings.Contains(out, "secret-code") {
		t.Errorf("authorization code leaked into request log: %s", out)
	}
	if !strings.Contains(out, "/auth/google/callback") {
		t.Errorf("request path missing from log: %s", out)
	}
}

func TestGinLogger_KeepsQueryElsewhere(t *testing.T) {
	buf := captureLogs(t)

	router := gin.New()
	router.Use(GinLogger())
	router.GET("/projects/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/projects/?category=education", nil)
	router.ServeHTTP(w, req)

	if !strings.Contains(buf.String(), "category=education") {
		t.Errorf("non-auth query string should be logged: %s", buf.String())
	}
}

func TestGinLogger_LevelByStatus(t *testing.T) {
	buf := captureLogs(t)

	router := gin.New()
	router.Use(GinLogger())
	router.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/boom", nil)
	router.ServeHTTP(w, req)

	if !strings.Contains(buf.String(), `"level":"error"`) {
		t.Errorf("5xx responses should log at error level: %s", buf.String())
	}
}

func TestGinRecovery(t *testing.T) {
	buf := captureLogs(t)

	router := gin.New()
	router.Use(GinRecovery())
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status 500 after panic, got %d", w.Code)
	}
	if !strings.Contains(buf.String(), "panic recovered") {
		t.Errorf("panic should be logged: %s", buf.String())
	}
}
