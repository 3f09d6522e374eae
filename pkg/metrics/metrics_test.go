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
)

func TestNewCollector(t *testing.T) {
	reg := prometheus.NewRegistry()

	collector, err := NewCollector(reg)
	require.NoError(t, err)
	assert.NotNil(t, collector.conflictsDetected)
	assert.NotNil(t, collector.suggestionsGenerated)
	assert.NotNil(t, collector.ambiguousDeadlines)
	assert.NotNil(t, collector.detectionDuration)
}

func TestNewCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()

	_, err := NewCollector(reg)
	require.NoError(t, err)

	_, err = NewCollector(reg)
	assert.Error(t, err)
}

func TestNewCollector_DefaultRegisterer(t *testing.T) {
	// Reset Prometheus registry to avoid duplicate registration
	prometheus.DefaultRegisterer = prometheus.NewRegistry()

	collector, err := NewCollector(nil)
	require.NoError(t, err)
	assert.NotNil(t, collector)
}

func TestRecordConflict(t *testing.T) {
	collector, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	collector.RecordConflict("OVERLAP_WITH_BLOCK")
	collector.RecordConflict("OVERLAP_WITH_BLOCK")
	collector.RecordConflict("PAST_DEADLINE")

	assert.Equal(t, 2.0, testutil.ToFloat64(collector.conflictsDetected.WithLabelValues("OVERLAP_WITH_BLOCK")))
	assert.Equal(t, 1.0, testutil.ToFloat64(collector.conflictsDetected.WithLabelValues("PAST_DEADLINE")))
}

func TestRecordSuggestion(t *testing.T) {
	collector, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	collector.RecordSuggestion("IMPOSSIBLE")

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.suggestionsGenerated.WithLabelValues("IMPOSSIBLE")))
}

func TestRecordAmbiguousDeadline(t *testing.T) {
	collector, err := NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		collector.RecordAmbiguousDeadline()
	}

	assert.Equal(t, 3.0, testutil.ToFloat64(collector.ambiguousDeadlines))
}

func TestObserveDetection(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)

	collector.ObserveDetection("block", time.Now().Add(-10*time.Millisecond))

	assert.Equal(t, 1, testutil.CollectAndCount(collector.detectionDuration))
}

func TestNilCollector(t *testing.T) {
	var collector *Collector

	assert.NotPanics(t, func() {
		collector.RecordConflict("CAPACITY_EXCEEDED")
		collector.RecordSuggestion("LOCAL_REPAIR")
		collector.RecordAmbiguousDeadline()
		collector.ObserveDetection("allocation", time.Now())
	})
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := NewCollector(reg)
	require.NoError(t, err)
	collector.RecordConflict("LUNCH_ENCROACHMENT")

	path := filepath.Join(t.TempDir(), "capacity.prom")
	require.NoError(t, WriteTextfile(path, reg))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `capacity_conflicts_detected_total{kind="LUNCH_ENCROACHMENT"} 1`)
}
