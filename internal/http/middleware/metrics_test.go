package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/gin-gonic/gin"
)

func TestMetrics_CountsRequestsByRoute(t *testing.T) {
	r := newMWRouter(Metrics())
	r.GET("/things/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/things/:id", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/things/7", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/things/:id", "200"))
	if after != before+1 {
		t.Fatalf("expected counter to move from %v to %v, got %v", before, before+1, after)
	}
}

func TestMetrics_UnmatchedRouteUsesRawPath(t *testing.T) {
	r := newMWRouter(Metrics())

	before := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	after := testutil.ToFloat64(httpReqs.WithLabelValues("GET", "/nope", "404"))
	if after != before+1 {
		t.Fatalf("expected 404 counter bump, got %v -> %v", before, after)
	}
}

func TestMetrics_InflightReturnsToZero(t *testing.T) {
	r := newMWRouter(Metrics())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := testutil.ToFloat64(httpInflight); got != 0 {
		t.Fatalf("expected no in-flight requests after completion, got %v", got)
	}
}
