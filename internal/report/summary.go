// Package report renders the end-of-run summary for the terminal.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/pkg/errors"

	"github.com/matrixci/matrixci/pkg/pipeline"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
)

// Summary writes one line per matrix entry plus totals.
type Summary struct {
	out io.Writer
}

// NewSummary creates a summary writing to out.
func NewSummary(out io.Writer) *Summary {
	return &Summary{out: out}
}

// Write renders the run result.
func (s *Summary) Write(res *pipeline.RunResult) error {
	if res == nil {
		return errors.New("run result must be set")
	}

	if _, err := fmt.Fprintf(s.out, "%s run %s (%s)\n", res.Name, res.ID, res.Duration.Round(time.Millisecond)); err != nil {
		return errors.Wrap(err, "unable to write summary")
	}

	for _, entry := range res.Entries {
		line := s.entryLine(entry)
		if _, err := fmt.Fprintln(s.out, line); err != nil {
			return errors.Wrap(err, "unable to write summary")
		}
	}

	if name, avg := slowestStage(res); name != "" {
		if _, err := fmt.Fprintf(s.out, "slowest stage: %s (avg %s)\n", name, avg.Round(time.Millisecond)); err != nil {
			return errors.Wrap(err, "unable to write summary")
		}
	}

	failed := len(res.Failed())
	if _, err := fmt.Fprintf(s.out, "%d entries, %d failed\n", len(res.Entries), failed); err != nil {
		return errors.Wrap(err, "unable to write summary")
	}

	return nil
}

func (s *Summary) entryLine(entry *pipeline.EntryResult) string {
	state := green(string(entry.State))
	detail := ""

	switch {
	case entry.State == pipeline.StateFailed:
		state = red(string(entry.State))
		if entry.FailedStage != "" {
			detail = fmt.Sprintf("  stage %s failed", entry.FailedStage)
		}
	case entry.ReportErr != nil:
		state = yellow(string(entry.State))
		detail = "  report upload failed, test results valid"
	}

	return fmt.Sprintf("  %-10s %s (%s)%s", state, entry.Entry.String(), entry.Duration.Round(time.Millisecond), detail)
}

// slowestStage averages stage durations across entries and returns the
// slowest one.
func slowestStage(res *pipeline.RunResult) (string, time.Duration) {
	type acc struct {
		total time.Duration
		runs  int64
	}
	byStage := make(map[string]*acc)
	order := make([]string, 0)

	for _, entry := range res.Entries {
		if entry == nil {
			continue
		}
		for _, stage := range entry.Stages {
			name := stage.Stage.Name
			if byStage[name] == nil {
				byStage[name] = &acc{}
				order = append(order, name)
			}
			byStage[name].total += stage.Duration
			byStage[name].runs++
		}
	}

	var slowestName string
	var slowestAvg time.Duration
	for _, name := range order {
		a := byStage[name]
		avg := time.Duration(int64(a.total) / a.runs)
		if avg > slowestAvg {
			slowestAvg = avg
			slowestName = name
		}
	}

	return slowestName, slowestAvg
}
