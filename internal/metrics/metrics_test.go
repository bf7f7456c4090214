package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend is an in-memory Backend for tests.
type fakeBackend struct {
	mu sync.Mutex

	counters   []call
	histograms []call
	flushes    int
}

type call struct {
	name   string
	value  float64
	labels Labels
}

func (f *fakeBackend) IncCounter(name string, delta float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counters = append(f.counters, call{name, delta, labels})
}

func (f *fakeBackend) ObserveHistogram(name string, value float64, labels Labels) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.histograms = append(f.histograms, call{name, value, labels})
}

func (f *fakeBackend) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

func install(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{}
	SetBackend(fb)
	t.Cleanup(func() { SetBackend(nil) })
	return fb
}

// TestRecordStage verifies labels, status and duration for both outcomes.
func TestRecordStage(t *testing.T) {
	fb := install(t)

	RecordStage("ml100k", "ingest", nil, 2*time.Second)
	RecordStage("ml100k", "persist", errors.New("boom"), 1500*time.Millisecond)

	require.Len(t, fb.counters, 2)
	require.Len(t, fb.histograms, 2)

	assert.Equal(t, StageTotal, fb.counters[0].name)
	assert.Equal(t, Labels{"job": "ml100k", "stage": "ingest", "status": "success"}, fb.counters[0].labels)
	assert.Equal(t, "failure", fb.counters[1].labels["status"])

	assert.Equal(t, StageDurationSeconds, fb.histograms[0].name)
	assert.InDelta(t, 2.0, fb.histograms[0].value, 0.001)
	assert.InDelta(t, 1.5, fb.histograms[1].value, 0.001)
}

// TestRecordRows verifies non-positive deltas are dropped.
func TestRecordRows(t *testing.T) {
	fb := install(t)

	RecordRows("ml100k", KindPersisted, "Users", 943)
	RecordRows("ml100k", KindPersisted, "Movies", 0)
	RecordRetry("ml100k", "Ratings")

	require.Len(t, fb.counters, 2)
	assert.Equal(t, call{RowsTotal, 943, Labels{"job": "ml100k", "kind": KindPersisted, "table": "Users"}}, fb.counters[0])
	assert.Equal(t, WriteRetriesTotal, fb.counters[1].name)
	assert.Equal(t, "Ratings", fb.counters[1].labels["table"])
}

// TestSetBackendAndFlush verifies installation, flush delegation and the
// nil reset.
func TestSetBackendAndFlush(t *testing.T) {
	fb := install(t)

	require.NoError(t, Flush())
	assert.Equal(t, 1, fb.flushes)

	SetBackend(nil)
	require.NoError(t, Flush())
	RecordStage("job", "stage", nil, time.Second)
	assert.Empty(t, fb.counters)
}
