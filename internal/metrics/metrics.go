// Package metrics holds the prometheus collectors for redirects and link creation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "linkbio"

// Metrics groups the service's collectors
type Metrics struct {
	Redirects          *prometheus.CounterVec
	DeeplinkResolution *prometheus.CounterVec
	LinksCreated       *prometheus.CounterVec
	ShortCodeAttempts  prometheus.Histogram
	RateLimited        *prometheus.CounterVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Redirects: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "redirects_total",
			Help:      "Short-code visits by dispatch outcome.",
		}, []string{"outcome"}),
		DeeplinkResolution: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deeplink_resolutions_total",
			Help:      "Resolved deeplink visits by the precedence step that chose the destination.",
		}, []string{"source"}),
		LinksCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "links_created_total",
			Help:      "Links created by namespace and target kind.",
		}, []string{"namespace", "kind"}),
		ShortCodeAttempts: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "shortcode_reservation_attempts",
			Help:      "Candidates drawn per successful short-code reservation.",
			Buckets:   []float64{1, 2, 3, 5, 8, 10},
		}),
		RateLimited: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ratelimited_total",
			Help:      "Requests rejected by the rate limiter, by route scope.",
		}, []string{"scope"}),
	}

	if reg != nil {
		reg.MustRegister(m.Redirects, m.DeeplinkResolution, m.LinksCreated, m.ShortCodeAttempts, m.RateLimited)
	}
	return m
}

// Nop returns unregistered collectors
func Nop() *Metrics {
	return New(nil)
}
