package playlist

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go_playlist/internal/engine"
	"github.com/anatolykoptev/go_playlist/internal/engine/sources"
)

// enricher turns one page of refs into enrichment tasks on a task group.
// A task returns a non-nil error only when the whole run must stop:
// strict-mode failure, cancellation or a slot defect.
type enricher struct {
	playlistID string
	fetcher    Fetcher
	agg        *Aggregator
	opts       Options
	failures   *failureLog
}

// spawn schedules the tasks for refs on g. refs must already be reserved.
func (e *enricher) spawn(ctx context.Context, g *errgroup.Group, refs []PlaylistItemRef) {
	if e.opts.FetchVideoDetails {
		if e.opts.BatchVideoDetails {
			for batch := range slices.Chunk(refs, sources.MaxPageSize) {
				g.Go(func() error { return e.batchDetails(ctx, batch) })
			}
		} else {
			for _, ref := range refs {
				g.Go(func() error { return e.itemDetails(ctx, ref) })
			}
		}
	}
	if e.opts.FetchComments {
		for _, ref := range refs {
			g.Go(func() error { return e.itemComments(ctx, ref) })
		}
	}
}

func (e *enricher) itemDetails(ctx context.Context, ref PlaylistItemRef) error {
	slog.Debug("playlist: video details request",
		slog.Int("position", ref.Position), slog.String("video", engine.ShortID(ref.VideoID, 5)))

	resp, err := e.fetcher.GetVideoDetails(ctx, []string{ref.VideoID})
	if err == nil && len(resp.Items) == 0 {
		err = ErrVideoNotFound
	}
	if err != nil {
		return e.fail(ctx, ref, StageVideoDetails, err)
	}
	return e.agg.WriteVideoDetails(ref.Position, detailsFromVideo(resp.Items[0]))
}

// batchDetails fetches details for consecutive refs in one call. A response of
// the requested length is matched by index: upstream keeps request order but
// does not reliably echo ids. A short response has dropped ids somewhere, so
// it is matched by echoed id and every ref without a match fails with
// ErrMissingDetails.
func (e *enricher) batchDetails(ctx context.Context, batch []PlaylistItemRef) error {
	ids := make([]string, len(batch))
	for i, ref := range batch {
		ids[i] = ref.VideoID
	}

	resp, err := e.fetcher.GetVideoDetails(ctx, ids)
	if err != nil {
		for _, ref := range batch {
			if ferr := e.fail(ctx, ref, StageVideoDetails, err); ferr != nil {
				return ferr
			}
		}
		return nil
	}

	if len(resp.Items) < len(batch) {
		return e.matchByID(ctx, batch, resp.Items)
	}
	if len(resp.Items) > len(batch) {
		slog.Warn("playlist: batched details returned surplus items",
			slog.String("playlist", e.playlistID),
			slog.Int("requested", len(batch)),
			slog.Int("returned", len(resp.Items)))
	}
	for i, ref := range batch {
		if err := e.agg.WriteVideoDetails(ref.Position, detailsFromVideo(resp.Items[i])); err != nil {
			return err
		}
	}
	return nil
}

// matchByID writes each ref whose id is echoed in items. Items without an id
// cannot be placed and are dropped.
func (e *enricher) matchByID(ctx context.Context, batch []PlaylistItemRef, items []sources.Video) error {
	byID := make(map[string]sources.Video, len(items))
	for _, v := range items {
		if v.ID != "" {
			byID[v.ID] = v
		}
	}
	slog.Warn("playlist: batched details response is short",
		slog.String("playlist", e.playlistID),
		slog.Int("requested", len(batch)),
		slog.Int("returned", len(items)),
		slog.Int("matched_ids", len(byID)))

	for _, ref := range batch {
		v, ok := byID[ref.VideoID]
		if !ok {
			if ferr := e.fail(ctx, ref, StageVideoDetails, ErrMissingDetails); ferr != nil {
				return ferr
			}
			continue
		}
		if err := e.agg.WriteVideoDetails(ref.Position, detailsFromVideo(v)); err != nil {
			return err
		}
	}
	return nil
}

func (e *enricher) itemComments(ctx context.Context, ref PlaylistItemRef) error {
	slog.Debug("playlist: comments request",
		slog.Int("position", ref.Position), slog.String("video", engine.ShortID(ref.VideoID, 5)))

	resp, err := e.fetcher.GetComments(ctx, ref.VideoID)
	if err != nil {
		return e.fail(ctx, ref, StageComments, err)
	}
	// Upstream relevance order is kept as is.
	threads := resp.Items[:min(len(resp.Items), e.opts.commentLimit())]
	comments := make([]CommentRecord, 0, len(threads))
	for _, t := range threads {
		comments = append(comments, commentFromThread(t))
	}
	return e.agg.WriteComments(ref.Position, comments)
}

// fail handles one failed enrichment call. Cancellation always propagates;
// otherwise the slot is marked failed and the failure is either recorded
// (lenient) or promoted to an *AggregationError (strict).
func (e *enricher) fail(ctx context.Context, ref PlaylistItemRef, stage Stage, err error) error {
	if ctx.Err() != nil {
		return context.Cause(ctx)
	}
	if merr := e.agg.MarkFailed(ref.Position, stage); merr != nil {
		return merr
	}
	if e.opts.Strict {
		return &AggregationError{PlaylistID: e.playlistID, Stage: stage, Position: ref.Position, Err: err}
	}
	slog.Warn("playlist: enrichment failed",
		slog.String("playlist", e.playlistID),
		slog.String("stage", string(stage)),
		slog.Int("position", ref.Position),
		slog.String("video", ref.VideoID),
		slog.Any("error", err))
	e.failures.add(ItemFailure{Position: ref.Position, VideoID: ref.VideoID, Stage: stage, Err: err})
	return nil
}

// failureLog collects lenient-mode failures from concurrent tasks.
type failureLog struct {
	mu    sync.Mutex
	items []ItemFailure
}

func (l *failureLog) add(f ItemFailure) {
	l.mu.Lock()
	l.items = append(l.items, f)
	l.mu.Unlock()
}

// sorted returns the failures ordered by position, then stage.
func (l *failureLog) sorted() []ItemFailure {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := slices.Clone(l.items)
	slices.SortFunc(out, func(a, b ItemFailure) int {
		return cmp.Or(cmp.Compare(a.Position, b.Position), cmp.Compare(a.Stage, b.Stage))
	})
	return out
}

func detailsFromVideo(v sources.Video) VideoDetails {
	return VideoDetails{
		Title:         v.Snippet.Title,
		ChannelTitle:  v.Snippet.ChannelTitle,
		Duration:      v.ContentDetails.Duration,
		ViewCount:     v.Statistics.ViewCount,
		LikeCount:     v.Statistics.LikeCount,
		DislikeCount:  v.Statistics.DislikeCount,
		FavoriteCount: v.Statistics.FavoriteCount,
		CommentCount:  v.Statistics.CommentCount,
	}
}

func commentFromThread(t sources.CommentThread) CommentRecord {
	s := t.Snippet.TopLevelComment.Snippet
	return CommentRecord{
		AuthorName:            s.AuthorDisplayName,
		AuthorProfileImageURL: s.AuthorProfileImageURL,
		Text:                  s.TextOriginal,
		LikeCount:             s.LikeCount.String(),
		PublishedAt:           s.PublishedAt,
	}
}
