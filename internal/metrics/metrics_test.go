package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Redirects.WithLabelValues("RESOLVED").Inc()
	m.DeeplinkResolution.WithLabelValues("ios").Inc()
	m.LinksCreated.WithLabelValues("short_link", "deeplink").Inc()
	m.ShortCodeAttempts.Observe(1)
	m.RateLimited.WithLabelValues("redirect").Inc()

	families, err := reg.Gather()
	require.NoError(t, err)

	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.ElementsMatch(t, []string{
		"linkbio_redirects_total",
		"linkbio_deeplink_resolutions_total",
		"linkbio_links_created_total",
		"linkbio_shortcode_reservation_attempts",
		"linkbio_ratelimited_total",
	}, names)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.Redirects.WithLabelValues("RESOLVED")))
}

func TestNew_DoubleRegistrationPanics(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)
	assert.Panics(t, func() { New(reg) })
}

func TestNop(t *testing.T) {
	m := Nop()
	assert.NotPanics(t, func() {
		m.Redirects.WithLabelValues("NOT_FOUND").Inc()
	})
	assert.Equal(t, float64(1), testutil.ToFloat64(m.Redirects.WithLabelValues("NOT_FOUND")))
}
