package metrics

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("gnosis/gnosis_vpn-client", OutcomeSuccess)
	m.ObserveRequest("gnosis/gnosis_vpn-client", OutcomeSuccess)
	m.ObserveRequest("gnosis/gnosis_vpn-client", OutcomeThrottled)
	m.ObserveThrottle("gnosis/gnosis_vpn-client")
	m.SetEntries("Client", 4)
	m.SetEntries("Client", 5)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("gnosis/gnosis_vpn-client", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requestsTotal.WithLabelValues("gnosis/gnosis_vpn-client", OutcomeThrottled)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.throttleRetriesTotal.WithLabelValues("gnosis/gnosis_vpn-client")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.entries.WithLabelValues("Client")))
}

func TestMetrics_NilIsNoop(t *testing.T) {
	t.Parallel()

	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveRequest("a/b", OutcomeError)
		m.ObserveThrottle("a/b")
		m.SetEntries("App", 1)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteFile(filepath.Join(t.TempDir(), "never.prom")))
}

func TestMetrics_WriteFile(t *testing.T) {
	t.Parallel()

	m := New()
	m.ObserveRequest("gnosis/gnosis_vpn", OutcomeSuccess)
	m.SetEntries("Installer", 3)

	path := filepath.Join(t.TempDir(), "release.prom")
	require.NoError(t, m.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	content := string(data)
	assert.Contains(t, content, `gnosisvpn_release_changelog_api_requests_total{outcome="success",repository="gnosis/gnosis_vpn"} 1`)
	assert.Contains(t, content, `gnosisvpn_release_changelog_entries{component="Installer"} 3`)
}

func TestMetrics_WriteFileBadPath(t *testing.T) {
	t.Parallel()

	m := New()
	err := m.WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "release.prom"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "writing metrics")
}
