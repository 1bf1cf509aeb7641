// Package metrics records what the API client does around authentication:
// refresh calls, requests parked behind an in-flight refresh, replays and
// forced logouts.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Recorder is the hook surface the API client reports to.
type Recorder interface {
	RefreshDone(err error, took time.Duration)
	RequestQueued()
	RequestReplayed()
	AuthFailure(reason string)
}

// Nop discards everything.
type Nop struct{}

func (Nop) RefreshDone(error, time.Duration) {}
func (Nop) RequestQueued()                   {}
func (Nop) RequestReplayed()                 {}
func (Nop) AuthFailure(string)               {}

// Auth failure reasons.
const (
	ReasonNoRefreshToken = "no_refresh_token"
	ReasonRefreshFailed  = "refresh_failed"
)

// Prometheus implements Recorder with client_golang collectors.
type Prometheus struct {
	refreshes       *prometheus.CounterVec
	refreshDuration prometheus.Histogram
	queued          prometheus.Counter
	replayed        prometheus.Counter
	authFailures    *prometheus.CounterVec
}

// NewPrometheus creates the collectors and registers them on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtbook",
			Subsystem: "client",
			Name:      "token_refreshes_total",
			Help:      "Refresh calls made to the backend, by result.",
		}, []string{"result"}),
		refreshDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "courtbook",
			Subsystem: "client",
			Name:      "token_refresh_duration_seconds",
			Help:      "Latency of refresh calls.",
			Buckets:   prometheus.DefBuckets,
		}),
		queued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courtbook",
			Subsystem: "client",
			Name:      "requests_queued_total",
			Help:      "Requests that waited for an in-flight refresh.",
		}),
		replayed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "courtbook",
			Subsystem: "client",
			Name:      "requests_replayed_total",
			Help:      "Requests replayed with a refreshed access token.",
		}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "courtbook",
			Subsystem: "client",
			Name:      "auth_failures_total",
			Help:      "Forced logouts, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(p.refreshes, p.refreshDuration, p.queued, p.replayed, p.authFailures)
	return p
}

func (p *Prometheus) RefreshDone(err error, took time.Duration) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	p.refreshes.WithLabelValues(result).Inc()
	p.refreshDuration.Observe(took.Seconds())
}

func (p *Prometheus) RequestQueued()   { p.queued.Inc() }
func (p *Prometheus) RequestReplayed() { p.replayed.Inc() }

func (p *Prometheus) AuthFailure(reason string) {
	p.authFailures.WithLabelValues(reason).Inc()
}
