package metrics

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/linuxmatters/doaprep/internal/processor"
)

func TestRecordSuccess(t *testing.T) {
	registry := prometheus.NewRegistry()
	m, err := NewMetrics(registry)
	require.NoError(t, err)

	result := &processor.ProcessingResult{
		Calibration:   &processor.Calibration{Peak: 321},
		SilenceChunks: 4,
		SignalChunks:  6,
		Sink:          processor.SinkStats{Submitted: 10, Written: 3, Dropped: 45, Rejected: 4},
		CalibrateTime: 10 * time.Millisecond,
		ClassifyTime:  90 * time.Millisecond,
	}
	m.RecordSuccess("directional", "a.raw", result)
	m.RecordSuccess("directional", "b.raw", result)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.recordingsTotal.WithLabelValues("directional", "success")))
	assert.Equal(t, float64(8), testutil.ToFloat64(m.chunksTotal.WithLabelValues("silence")))
	assert.Equal(t, float64(12), testutil.ToFloat64(m.chunksTotal.WithLabelValues("signal")))
	assert.Equal(t, float64(6), testutil.ToFloat64(m.recordsWritten.WithLabelValues("directional")))
	assert.Equal(t, float64(90), testutil.ToFloat64(m.recordsDropped.WithLabelValues("directional")))
	assert.Equal(t, float64(8), testutil.ToFloat64(m.chunksRejected.WithLabelValues("directional")))
	assert.Equal(t, float64(321), testutil.ToFloat64(m.silencePeak.WithLabelValues("a.raw")))
}

func TestRecordFailure(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)

	m.RecordFailure("silence")
	m.RecordSkipped("silence")
	m.RecordSkipped("silence")
	assert.Equal(t, float64(1), testutil.ToFloat64(m.recordingsTotal.WithLabelValues("silence", "error")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.recordingsTotal.WithLabelValues("silence", "skipped")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.recordingsTotal.WithLabelValues("silence", "success")))
}

func TestNewMetricsDuplicateRegistration(t *testing.T) {
	registry := prometheus.NewRegistry()
	_, err := NewMetrics(registry)
	require.NoError(t, err)

	_, err = NewMetrics(registry)
	assert.Error(t, err)
}

func TestWriteTextfile(t *testing.T) {
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	m.RecordFailure("directional")

	path := filepath.Join(t.TempDir(), "doaprep.prom")
	require.NoError(t, m.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `doaprep_recordings_total{kind="directional",status="error"} 1`)
}
