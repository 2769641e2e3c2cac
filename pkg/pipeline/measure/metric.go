package measure

import (
	"sync"
	"time"
)

type DefaultMetric struct {
	mu           *sync.Mutex
	allCommands  map[string]*CommandInfo
	stageElapsed time.Duration
	runs         int64
}

func (mt *DefaultMetric) AddStageDuration(elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	mt.runs++
	mt.stageElapsed += elapsed
}

func (mt *DefaultMetric) AddCommandDuration(run string, elapsed time.Duration) {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.allCommands[run] == nil {
		mt.allCommands[run] = &CommandInfo{}
	}
	info := mt.allCommands[run]
	info.Elapsed += elapsed
	info.total++
}

func (mt *DefaultMetric) Runs() int64 {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.runs
}

func (mt *DefaultMetric) AVGStageDuration() time.Duration {
	mt.mu.Lock()
	defer mt.mu.Unlock()
	if mt.runs == 0 {
		return time.Duration(0)
	}

	return round(time.Duration(float64(mt.stageElapsed) / float64(mt.runs)))
}

func (mt *DefaultMetric) AVGCommandDuration() map[string]*CommandInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	averaged := make(map[string]*CommandInfo, len(mt.allCommands))
	for run, info := range mt.allCommands {
		avg := &CommandInfo{total: info.total}
		if info.total > 0 {
			avg.Elapsed = round(time.Duration(float64(info.Elapsed) / float64(info.total)))
		}
		averaged[run] = avg
	}

	return averaged
}

func (mt *DefaultMetric) AllCommands() map[string]*CommandInfo {
	mt.mu.Lock()
	defer mt.mu.Unlock()

	return mt.allCommands
}

func round(d time.Duration) time.Duration {
	switch {
	case d > time.Second:
		d = d.Round(time.Second)
	case d > time.Millisecond:
		d = d.Round(time.Millisecond)
	case d > time.Microsecond:
		d = d.Round(time.Microsecond)
	}

	return d
}
