package elemental

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetricsNilRegistry(t *testing.T) {
	m := NewMetrics(nil)
	assert.Nil(t, m)

	// nil metrics record nothing and do not panic
	m.componentRegistered()
	m.listenerRegistered()
	m.listenerSkipped()
	m.eventRaised(true)
	m.rendered("el-hero")
}

func TestMetricsRecorded(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	require.NotNil(t, m)

	h := NewTestHost(WithMetrics(m))
	typ := registerGreeter(h, Listen("click", "OnClick"))
	g, err := Mount[*greeter](h, typ, Options{})
	require.NoError(t, err)

	_, err = g.RaiseEvent("ping", Custom())
	require.NoError(t, err)
	_, err = g.RaiseEvent("click")
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.componentsRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listenersRegistered))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.listenersSkipped), "connect re-registers the declared listener")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsRaised.WithLabelValues("true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.eventsRaised.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.renders.WithLabelValues("el-greeter")))
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() {
		NewMetrics(reg)
	})
}
