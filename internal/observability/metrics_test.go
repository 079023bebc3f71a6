package observability

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetrics()

	m.RecordInteraction("ticket_select_v1")
	m.RecordInteraction("ticket_select_v1")
	m.RecordInteraction("ticket_close_v1")
	m.RecordError("ticket_close_v1", "CONFLICT")

	interactions, errs := m.Snapshot()
	assert.Equal(t, int64(2), interactions["ticket_select_v1"])
	assert.Equal(t, int64(1), interactions["ticket_close_v1"])
	assert.Equal(t, int64(1), errs["ticket_close_v1|CONFLICT"])
}

func TestMetricsNilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordInteraction("x")
		m.RecordError("x", "INTERNAL_ERROR")
		m.Snapshot()
	})
}

func TestMetricsConcurrentWrites(t *testing.T) {
	m := NewMetrics()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				m.RecordInteraction("tag")
			}
		}()
	}
	wg.Wait()

	interactions, _ := m.Snapshot()
	assert.Equal(t, int64(800), interactions["tag"])
}
