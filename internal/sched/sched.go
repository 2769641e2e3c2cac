// Package sched decides how many matrix entries run at once.
package sched

const defaultWorkers = 4

// WorkerLimit returns the number of concurrent workers for the given number
// of entries. A positive configured value wins; otherwise the default cap
// applies, never exceeding the entry count and never dropping below one.
func WorkerLimit(entries, configured int) int {
	if configured > 0 {
		return configured
	}

	limit := defaultWorkers
	if entries < limit {
		limit = entries
	}
	if limit < 1 {
		limit = 1
	}

	return limit
}
