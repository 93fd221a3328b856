package playlist

import (
	"slices"
	"sync"

	"github.com/anatolykoptev/go_playlist/internal/engine"
)

// Aggregator owns the position-indexed result set of one aggregation run.
//
// Only the page walker calls Reserve, once per page, before any task for that
// page is started. Tasks write by absolute position and each touches only its
// own slot and field group, so writes share the read lock: it guards the slice
// header against growth, never one slot against another.
type Aggregator struct {
	mu      sync.RWMutex
	records []VideoRecord
	sealed  bool
}

// NewAggregator returns an empty aggregator. sizeHint preallocates when the
// playlist length is known up front.
func NewAggregator(sizeHint int) *Aggregator {
	return &Aggregator{records: make([]VideoRecord, 0, max(sizeHint, 0))}
}

// NewSkeleton builds the reservation-time record for ref. Field groups the
// options do not request start as skipped, the rest as pending.
func NewSkeleton(ref PlaylistItemRef, opts Options) VideoRecord {
	rec := VideoRecord{
		VideoID:       ref.VideoID,
		Position:      ref.Position,
		URL:           engine.YouTubeWatchURL + ref.VideoID,
		TopComments:   []CommentRecord{},
		DetailsState:  StateSkipped,
		CommentsState: StateSkipped,
	}
	if opts.FetchVideoDetails {
		rec.DetailsState = StatePending
	}
	if opts.FetchComments {
		rec.CommentsState = StatePending
	}
	return rec
}

// Reserve appends one page of skeletons in a single growth step. Skeleton
// positions must continue the current length exactly; anything else is a
// *SlotError.
func (a *Aggregator) Reserve(skeletons ...VideoRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.sealed {
		return ErrSealed
	}
	n := len(a.records)
	for i, s := range skeletons {
		if s.Position != n+i {
			return &SlotError{Op: "reserve", Position: s.Position, Reserved: n}
		}
	}
	a.records = append(a.records, skeletons...)
	return nil
}

// WriteVideoDetails fills the details group of a reserved slot.
func (a *Aggregator) WriteVideoDetails(position int, d VideoDetails) error {
	return a.write("write video details", position, func(rec *VideoRecord) {
		rec.VideoDetails = d
		rec.DetailsState = StateOK
	})
}

// WriteComments fills the comments group of a reserved slot.
func (a *Aggregator) WriteComments(position int, comments []CommentRecord) error {
	if comments == nil {
		comments = []CommentRecord{}
	}
	return a.write("write comments", position, func(rec *VideoRecord) {
		rec.TopComments = comments
		rec.CommentsState = StateOK
	})
}

// MarkFailed records that the stage's field group of a reserved slot stays at its default.
func (a *Aggregator) MarkFailed(position int, stage Stage) error {
	return a.write("mark failed", position, func(rec *VideoRecord) {
		switch stage {
		case StageVideoDetails:
			rec.DetailsState = StateFailed
		case StageComments:
			rec.CommentsState = StateFailed
		}
	})
}

func (a *Aggregator) write(op string, position int, fn func(*VideoRecord)) error {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.sealed {
		return ErrSealed
	}
	if position < 0 || position >= len(a.records) {
		return &SlotError{Op: op, Position: position, Reserved: len(a.records)}
	}
	fn(&a.records[position])
	return nil
}

// Len reports the number of reserved slots.
func (a *Aggregator) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.records)
}

// Snapshot seals the aggregator and returns the records in position order.
// Call it only after every task has finished; later writes fail with ErrSealed.
func (a *Aggregator) Snapshot() []VideoRecord {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sealed = true
	return slices.Clone(a.records)
}
