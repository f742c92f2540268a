package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLifecycle(t *testing.T) {
	reg := prometheus.NewRegistry()

	m, err := NewLifecycle(reg)
	require.NoError(t, err)

	m.Uploads.WithLabelValues(ResultOK).Inc()
	m.QuotaDenials.WithLabelValues("upload").Add(2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Uploads.WithLabelValues(ResultOK)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.QuotaDenials.WithLabelValues("upload")))

	_, err = NewLifecycle(reg)
	assert.Error(t, err, "registering twice on the same registry must fail")
}
