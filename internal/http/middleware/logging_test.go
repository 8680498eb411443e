package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newMWRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw...)
	return r
}

func TestRequestID_GeneratesWhenAbsent(t *testing.T) {
	r := newMWRouter(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected generated request id")
	}
}

func TestRequestID_PropagatesIncoming(t *testing.T) {
	r := newMWRouter(RequestID())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "caller-id-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if rid := w.Header().Get("X-Request-ID"); rid != "caller-id-1" {
		t.Fatalf("expected echoed request id, got %q", rid)
	}
}

func TestLogger_AttachesRequestScopedLogger(t *testing.T) {
	r := newMWRouter(RequestID(), Logger())
	r.GET("/", func(c *gin.Context) {
		if lg := LoggerFrom(c); lg == nil {
			t.Errorf("expected request-scoped logger")
		}
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestLoggerFrom_FallbackWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if lg := LoggerFrom(c); lg == nil {
		t.Fatalf("LoggerFrom must never return nil")
	}
}

func TestRecovery_PanicBecomesJSON500(t *testing.T) {
	r := newMWRouter(RequestID(), Recovery())
	r.GET("/boom", func(c *gin.Context) { panic("kaput") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatalf("expected JSON content type")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 3); got != "abc…" {
		t.Fatalf("unexpected truncation: %q", got)
	}
	if got := truncate("abc", 10); got != "abc" {
		t.Fatalf("short strings must pass through: %q", got)
	}
	if got := truncate("abc", 0); got != "abc" {
		t.Fatalf("max<=0 disables truncation: %q", got)
	}
}
