package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_CountsByRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/book/:movie_id", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, path := range []string{"/book/1", "/book/2", "/missing"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "/book/:movie_id", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequests.WithLabelValues("GET", "unmatched", "404")))

	m.BookingsCreated.Inc()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookings_created_total 1")
	assert.Contains(t, w.Body.String(), `http_requests_total{method="GET",route="/book/:movie_id",status="200"} 2`)
}

func TestNew_SeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.BookingsCanceled.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.BookingsCanceled))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.BookingsCanceled))
}
