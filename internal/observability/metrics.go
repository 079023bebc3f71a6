package observability

import (
	"sync"
)

// Metrics provides basic in-memory counters for handled interactions.
type Metrics struct {
	mu               sync.Mutex
	interactionCount map[string]int64
	errorCount       map[string]int64
}

// NewMetrics initializes metrics storage.
func NewMetrics() *Metrics {
	return &Metrics{
		interactionCount: make(map[string]int64),
		errorCount:       make(map[string]int64),
	}
}

// RecordInteraction increments the dispatch counter for a control tag.
func (m *Metrics) RecordInteraction(tag string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.interactionCount[tag]++
}

// RecordError increments the error counter for a control tag and error code.
func (m *Metrics) RecordError(tag, code string) {
	if m == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errorCount[tag+"|"+code]++
}

// Snapshot returns copies of the current counters.
func (m *Metrics) Snapshot() (interactions, errors map[string]int64) {
	interactions = make(map[string]int64)
	errors = make(map[string]int64)
	if m == nil {
		return interactions, errors
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range m.interactionCount {
		interactions[k] = v
	}
	for k, v := range m.errorCount {
		errors[k] = v
	}
	return interactions, errors
}
