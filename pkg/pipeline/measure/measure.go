package measure

import (
	"sync"
	"time"
)

type DefaultMeasure struct {
	mu       sync.Mutex
	steps    map[string]Metric
	totalDur time.Duration
}

func NewDefaultMeasure() *DefaultMeasure {
	return &DefaultMeasure{
		steps: make(map[string]Metric),
	}
}

func (m *DefaultMeasure) AddMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	mt := &DefaultMetric{
		mu:          &sync.Mutex{},
		allCommands: make(map[string]*CommandInfo),
	}
	m.steps[name] = mt

	return mt
}

func (m *DefaultMeasure) GetMetric(name string) Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.steps[name]
}

func (m *DefaultMeasure) AllMetrics() map[string]Metric {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.steps
}

func (m *DefaultMeasure) SetTotalDuration(elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.totalDur = elapsed
}

func (m *DefaultMeasure) GetTotalDuration() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.totalDur
}

var _ Measure = (*DefaultMeasure)(nil)
