package playlist

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidSlot marks a write or reservation that breaks the
	// reserve-before-write contract. It is a bug in the fan-out, not an upstream condition.
	ErrInvalidSlot = errors.New("invalid result slot")
	// ErrSealed is returned for any change after Snapshot.
	ErrSealed = errors.New("result set sealed")
	// ErrVideoNotFound is returned when videos.list has no item for a requested id.
	ErrVideoNotFound = errors.New("video not found")
	// ErrMissingDetails marks positions a batched videos.list response did not cover.
	ErrMissingDetails = errors.New("missing from batched response")
)

// InputError is a missing or malformed playlist identifier. No upstream call was made.
type InputError struct {
	Value  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Value == "" {
		return "invalid playlist: " + e.Reason
	}
	return fmt.Sprintf("invalid playlist %q: %s", e.Value, e.Reason)
}

// SlotError is an ErrInvalidSlot with the offending position.
type SlotError struct {
	Op       string
	Position int
	Reserved int
}

func (e *SlotError) Error() string {
	return fmt.Sprintf("%s position %d: %v (reserved %d)", e.Op, e.Position, ErrInvalidSlot, e.Reserved)
}

func (e *SlotError) Unwrap() error { return ErrInvalidSlot }

// AggregationError is a fatal failure: a page fetch, a strict-mode item failure,
// cancellation or an internal defect. No partial result accompanies it.
type AggregationError struct {
	PlaylistID string
	Stage      Stage
	Page       int // page index for StagePage
	Position   int // item position for enrichment stages, -1 otherwise
	Err        error
}

func (e *AggregationError) Error() string {
	switch {
	case e.Stage == StagePage:
		return fmt.Sprintf("aggregate %s: page %d: %v", e.PlaylistID, e.Page, e.Err)
	case e.Position >= 0:
		return fmt.Sprintf("aggregate %s: %s at position %d: %v", e.PlaylistID, e.Stage, e.Position, e.Err)
	default:
		return fmt.Sprintf("aggregate %s: %s: %v", e.PlaylistID, e.Stage, e.Err)
	}
}

func (e *AggregationError) Unwrap() error { return e.Err }
