package metrics

import (
	"sort"
	"sync"
	"time"
)

// Outcome classifies how a tool call ended.
type Outcome int

const (
	// Succeeded means a normal result envelope.
	Succeeded Outcome = iota
	// Failed means an error envelope: a backend failure or a refused input.
	Failed
	// Faulted means the handler returned an error and the client saw a
	// protocol-level fault.
	Faulted
)

// ToolStats accumulates the calls of one tool.
type ToolStats struct {
	Tool      string
	Calls     int64
	Failures  int64
	Faults    int64
	TotalTime time.Duration
}

// Average is the mean call duration, zero before the first call.
func (stats ToolStats) Average() time.Duration {
	if stats.Calls == 0 {
		return 0
	}
	return stats.TotalTime / time.Duration(stats.Calls)
}

// Invocations tracks tool calls per tool name. It is safe for concurrent use.
type Invocations struct {
	mu    sync.RWMutex
	tools map[string]*ToolStats
}

func NewInvocations() *Invocations {
	return &Invocations{tools: map[string]*ToolStats{}}
}

// Record adds one finished call of tool.
func (m *Invocations) Record(tool string, outcome Outcome, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, ok := m.tools[tool]
	if !ok {
		stats = &ToolStats{Tool: tool}
		m.tools[tool] = stats
	}

	stats.Calls++
	stats.TotalTime += duration

	switch outcome {
	case Failed:
		stats.Failures++
	case Faulted:
		stats.Faults++
	}
}

// Snapshot returns a copy of every tool's stats, ordered by tool name.
func (m *Invocations) Snapshot() []ToolStats {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snapshot := make([]ToolStats, 0, len(m.tools))
	for _, stats := range m.tools {
		snapshot = append(snapshot, *stats)
	}

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Tool < snapshot[j].Tool
	})

	return snapshot
}

// Total is the number of calls across all tools.
func (m *Invocations) Total() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var total int64
	for _, stats := range m.tools {
		total += stats.Calls
	}
	return total
}

// Reset clears all counters.
func (m *Invocations) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.tools = map[string]*ToolStats{}
}
