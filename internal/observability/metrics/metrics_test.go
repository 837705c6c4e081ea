package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
)

func TestObserveCommand(t *testing.T) {
	before := testutil.ToFloat64(commandsTotal.WithLabelValues("join_group", "conflict"))
	ObserveCommand("join_group", domain.ErrConflict("group is closed"), time.Millisecond)
	after := testutil.ToFloat64(commandsTotal.WithLabelValues("join_group", "conflict"))
	assert.Equal(t, before+1, after)
}

func TestSetCounts(t *testing.T) {
	SetCounts(domain.Counts{Users: 3, Groups: 4, OpenGroups: 3, Memberships: 7})

	assert.Equal(t, 3.0, testutil.ToFloat64(usersGauge))
	assert.Equal(t, 3.0, testutil.ToFloat64(groupsGauge.WithLabelValues("open")))
	assert.Equal(t, 1.0, testutil.ToFloat64(groupsGauge.WithLabelValues("closed")))
	assert.Equal(t, 7.0, testutil.ToFloat64(membershipsGauge))
}

func TestHTTPMetricsMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(HTTPMetricsMiddleware)
	r.Get("/users", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/users", "418"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/users", "418"))
	assert.Equal(t, before+1, after)
}
