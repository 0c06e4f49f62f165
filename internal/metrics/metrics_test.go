package metrics

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderCounts(t *testing.T) {
	r := New()

	r.ObserveCalculation(time.Now(), nil)
	r.ObserveCalculation(time.Now(), errors.New("boom"))
	r.AddNormalized("terraform", 3)
	r.ObserveDiscovery("aws", 7, time.Second, nil)
	r.ObserveDiscovery("gcp", 0, time.Second, errors.New("timeout"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.Calculations.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.Calculations.WithLabelValues("error")))
	assert.Equal(t, 3.0, testutil.ToFloat64(r.NormalizedResources.WithLabelValues("terraform")))
	assert.Equal(t, 7.0, testutil.ToFloat64(r.DiscoveredResources.WithLabelValues("aws")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.DiscoveryFailures.WithLabelValues("gcp")))
}

func TestWriteText(t *testing.T) {
	r := New()
	r.AddNormalized("manual", 2)

	var buf bytes.Buffer
	require.NoError(t, r.WriteText(&buf))
	assert.Contains(t, buf.String(), `mccost_normalized_resources_total{source="manual"} 2`)
}

func TestNilRecorderIsNoop(t *testing.T) {
	var r *Recorder
	r.ObserveCalculation(time.Now(), nil)
	r.AddNormalized("x", 1)
	r.ObserveDiscovery("aws", 1, 0, nil)
	assert.NoError(t, r.WriteText(&bytes.Buffer{}))
	assert.Nil(t, r.Registry())
}
