package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
)

func TestMetricsCountsByRoute(t *testing.T) {
	r := gin.New()
	r.Use(Metrics())
	r.GET("/parcels/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	before := promtest.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/parcels/:id", "404"))

	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/parcels/abc", nil))
	}

	after := promtest.ToFloat64(requestsTotal.WithLabelValues(http.MethodGet, "/parcels/:id", "404"))
	if after-before != 3 {
		t.Errorf("expected 3 requests recorded, got %v", after-before)
	}
}
