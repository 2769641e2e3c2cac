// Package model provides the data structures shared across the pipeline packages.
// It defines the stage and entry descriptors passed to observers,
// the per-command results, and the option contract observers implement.
package model
