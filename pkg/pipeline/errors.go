package pipeline

import (
	"sync"

	"github.com/pkg/errors"
)

var (
	ErrDefinitionMustBeSet  = errors.New("definition must be set")
	ErrNoStages             = errors.New("definition must declare at least one stage")
	ErrNoCommands           = errors.New("stage must declare at least one command")
	ErrNoMatrixVariable     = errors.New("matrix variable must be set")
	ErrNoMatrixValues       = errors.New("matrix must declare at least one value")
	ErrDuplicateMatrixValue = errors.New("matrix values must be unique")
	ErrUnknownStageKind     = errors.New("unknown stage kind")
	ErrStageOrder           = errors.New("stages must follow the canonical order")
	ErrUnknownMatrixValue   = errors.New("value is not part of the matrix")
)

type errorChans struct {
	mu   sync.Mutex
	list []*errorChan
}

func (ec *errorChans) add(errChan *errorChan) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.list = append(ec.list, errChan)
}

// errorChan carries the fatal error of one matrix entry, labelled with the
// entry name so the aggregated error names the entry that caused it.
type errorChan struct {
	c    <-chan error
	name string
}

func newErrorChan(name string, c <-chan error) *errorChan {
	return &errorChan{
		c:    c,
		name: name,
	}
}

// mergeErrors merges the per-entry error channels into one.
// Based on https://blog.golang.org/pipelines.
func mergeErrors(cs ...*errorChan) <-chan error {
	var wg sync.WaitGroup
	// The output channel holds as many errors as there are entries, so the
	// forwarding goroutines never block even when the receiver stops early.
	out := make(chan error, len(cs))

	forward := func(c *errorChan) {
		defer wg.Done()
		if c.c == nil {
			return
		}
		for err := range c.c {
			out <- errors.Wrap(err, c.name)
		}
	}
	wg.Add(len(cs))
	for _, c := range cs {
		go forward(c)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}
