package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/aryan0dhankhar/giftexchange/internal/domain"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftexchange_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giftexchange_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "giftexchange_commands_total",
		Help: "Count of executed commands by name and result kind",
	}, []string{"command", "result"})

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "giftexchange_command_duration_seconds",
		Help:    "Duration of commands including lock wait",
		Buckets: []float64{.00001, .00005, .0001, .0005, .001, .005, .01, .05, .1},
	}, []string{"command"})

	usersGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "giftexchange_users",
		Help: "Number of registered users",
	})

	groupsGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "giftexchange_groups",
		Help: "Number of groups by state",
	}, []string{"state"})

	membershipsGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "giftexchange_memberships",
		Help: "Number of user/group memberships",
	})
)

// ObserveHTTPRequest records an HTTP request metric
func ObserveHTTPRequest(method, path, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, status).Inc()
	httpRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// ObserveCommand records one command execution. The result label is
// "success" or the domain error kind.
func ObserveCommand(command string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = string(domain.KindOf(err))
	}
	commandsTotal.WithLabelValues(command, result).Inc()
	commandDuration.WithLabelValues(command).Observe(duration.Seconds())
}

// SetCounts publishes the aggregate sizes.
func SetCounts(c domain.Counts) {
	usersGauge.Set(float64(c.Users))
	groupsGauge.WithLabelValues("open").Set(float64(c.OpenGroups))
	groupsGauge.WithLabelValues("closed").Set(float64(c.Groups - c.OpenGroups))
	membershipsGauge.Set(float64(c.Memberships))
}
