// Package pipeline executes a fail-fast build-matrix pipeline.
//
// A pipeline is declared as an ordered list of stages, each stage holding an
// ordered list of shell commands, together with a build matrix over a single
// environment variable. Running the pipeline creates one entry per matrix
// value. Entries are independent of each other and may run concurrently, each
// in its own environment; within an entry the stages run strictly in order
// and the first fatal failure aborts the remaining stages.
//
// The pipeline stops reporting-stage work for an entry only when an earlier
// stage failed: a failure inside the report stage itself is recorded on the
// entry result but does not invalidate test results that already passed.
//
// Observers implementing the model.PipelineOption contract can be attached to
// draw the stage graph or to collect duration metrics.
package pipeline
