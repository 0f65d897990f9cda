package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics_DomainCounters(t *testing.T) {
	m := New()

	m.ApplicationEvent(ActionApplied)
	m.ApplicationEvent(ActionApplied)
	m.ApplicationEvent(ActionAccepted)
	m.TeardownEvent(TeardownSucceeded)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.applications.WithLabelValues(ActionApplied)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.applications.WithLabelValues(ActionAccepted)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.teardowns.WithLabelValues(TeardownSucceeded)))
}

func TestMetrics_MiddlewareAndHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/communities/:communityId", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/metrics", m.Handler())

	for _, id := range []string{"1", "2"} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/communities/"+id, nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(
		m.httpRequests.WithLabelValues(http.MethodGet, "/communities/:communityId", "200"),
	))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "bookclub_http_requests_total")
}

func TestNop(t *testing.T) {
	var r Recorder = Nop{}
	assert.NotPanics(t, func() {
		r.ApplicationEvent(ActionApplied)
		r.TeardownEvent(TeardownFailed)
	})
}
