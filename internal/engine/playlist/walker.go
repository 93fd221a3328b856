package playlist

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/anatolykoptev/go_playlist/internal/engine"
	"github.com/anatolykoptev/go_playlist/internal/engine/sources"
)

// Fetcher is the upstream the walker drives. *sources.YouTubeClient implements it.
type Fetcher interface {
	ListPlaylistPage(ctx context.Context, playlistID, cursor string) (*sources.PlaylistItemsResponse, error)
	GetVideoDetails(ctx context.Context, ids []string) (*sources.VideosResponse, error)
	GetComments(ctx context.Context, videoID string) (*sources.CommentThreadsResponse, error)
}

// Walker aggregates playlists against one Fetcher. Safe for concurrent use;
// each Aggregate call owns its own result set.
type Walker struct {
	fetcher Fetcher
}

func NewWalker(f Fetcher) *Walker {
	return &Walker{fetcher: f}
}

// Aggregate walks every page of the playlist and enriches each item per opts.
//
// It returns either a complete Result or an error, never both: *InputError
// for a bad id (no call made), *AggregationError for a page failure,
// strict-mode item failure or cancellation. Lenient item failures are
// listed in Result.Failures.
func (w *Walker) Aggregate(ctx context.Context, playlistID string, opts Options) (*Result, error) {
	id, err := ParsePlaylistID(playlistID)
	if err != nil {
		return nil, err
	}

	engine.IncrAggregations()
	var res *Result
	err = engine.TrackOperation(ctx, "aggregate:"+id, func(ctx context.Context) error {
		var aerr error
		res, aerr = w.aggregate(ctx, id, opts)
		return aerr
	})
	if err != nil {
		engine.IncrAggregationFailures()
		slog.Warn("playlist: aggregation failed", slog.String("playlist", id), slog.Any("error", err))
		return nil, err
	}
	engine.AddPartialItems(len(res.Failures))
	return res, nil
}

func (w *Walker) aggregate(ctx context.Context, playlistID string, opts Options) (*Result, error) {
	start := time.Now()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	agg := NewAggregator(0)
	e := &enricher{
		playlistID: playlistID,
		fetcher:    w.fetcher,
		agg:        agg,
		opts:       opts,
		failures:   &failureLog{},
	}

	// run holds the tasks of every page in unbounded mode; in bounded mode it
	// stays empty and each page gets its own group.
	run, runCtx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		run.SetLimit(opts.Concurrency)
	}

	// abort stops in-flight tasks and picks the error to report: a task error
	// that cancelled the run wins over the page error it caused.
	abort := func(page int, err error) (*Result, error) {
		cancelled := runCtx.Err() != nil
		cancel()
		if werr := run.Wait(); cancelled && werr != nil {
			err = werr
		}
		return nil, w.fatal(playlistID, StagePage, page, err)
	}

	cursor := ""
	position := 0
	pages := 0
	for {
		if err := runCtx.Err(); err != nil {
			return abort(pages, context.Cause(runCtx))
		}

		resp, err := w.fetcher.ListPlaylistPage(runCtx, playlistID, cursor)
		if err != nil {
			return abort(pages, err)
		}

		refs := make([]PlaylistItemRef, len(resp.Items))
		skeletons := make([]VideoRecord, len(resp.Items))
		for i, item := range resp.Items {
			refs[i] = PlaylistItemRef{VideoID: item.ContentDetails.VideoID, Position: position}
			skeletons[i] = NewSkeleton(refs[i], opts)
			position++
		}
		// Reservation completes before any task of this page is spawned.
		if err := agg.Reserve(skeletons...); err != nil {
			return abort(pages, err)
		}

		slog.Debug("playlist: page fetched",
			slog.String("playlist", playlistID),
			slog.Int("page", pages),
			slog.Int("items", len(refs)),
			slog.Bool("last", resp.NextPageToken == nil))

		if len(refs) > 0 {
			if opts.Unbounded {
				e.spawn(runCtx, run, refs)
			} else {
				pg, pageCtx := errgroup.WithContext(ctx)
				if opts.Concurrency > 0 {
					pg.SetLimit(opts.Concurrency)
				}
				e.spawn(pageCtx, pg, refs)
				if err := pg.Wait(); err != nil {
					return nil, w.fatal(playlistID, StagePage, pages, err)
				}
			}
		}
		pages++

		if resp.NextPageToken == nil {
			break
		}
		cursor = *resp.NextPageToken
	}

	if err := run.Wait(); err != nil {
		return nil, w.fatal(playlistID, StagePage, pages, err)
	}

	res := &Result{
		PlaylistID: playlistID,
		Pages:      pages,
		Videos:     agg.Snapshot(),
		Failures:   e.failures.sorted(),
	}
	slog.Info("playlist: aggregated",
		slog.String("playlist", playlistID),
		slog.Int("videos", len(res.Videos)),
		slog.Int("pages", pages),
		slog.Int("failures", len(res.Failures)),
		slog.Duration("elapsed", time.Since(start)))
	return res, nil
}

// fatal wraps err as an *AggregationError unless it already is one.
func (w *Walker) fatal(playlistID string, stage Stage, page int, err error) error {
	var aerr *AggregationError
	if errors.As(err, &aerr) {
		return aerr
	}
	return &AggregationError{PlaylistID: playlistID, Stage: stage, Page: page, Position: -1, Err: err}
}
