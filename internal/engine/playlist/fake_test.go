package playlist

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/anatolykoptev/go_playlist/internal/engine/sources"
)

// fakeFetcher serves pages in call order and synthesizes details and comments
// from the video id. Hooks run inside the call and may block on ctx.
type fakeFetcher struct {
	mu        sync.Mutex
	pages     []fakePage
	pageCalls int
	cursors   []string
	pageErrAt int // page call index that fails; -1 for none
	pageErr   error

	detailsErr  map[string]error
	commentsErr map[string]error
	missing     map[string]bool // per-item details returns no items

	detailsCalls [][]string
	commentCalls atomic.Int32

	detailsHook  func(ctx context.Context, ids []string) error
	commentsHook func(ctx context.Context, videoID string) error
	batchResp    func(ids []string) []sources.Video
	threads      int // comment threads returned per video; 0 = 2

	inFlight    atomic.Int32
	maxInFlight atomic.Int32
	// pageWhileBusy counts page requests issued while enrichment calls were in flight.
	pageWhileBusy atomic.Int32
}

type fakePage struct {
	ids  []string
	next *string
}

func strPtr(s string) *string { return &s }

// newFakePlaylist splits n videos ("vid-000", ...) into pages of pageSize.
func newFakePlaylist(n, pageSize int) *fakeFetcher {
	f := &fakeFetcher{pageErrAt: -1}
	if n == 0 {
		f.pages = []fakePage{{}}
		return f
	}
	for start := 0; start < n; start += pageSize {
		var p fakePage
		for i := start; i < min(start+pageSize, n); i++ {
			p.ids = append(p.ids, videoID(i))
		}
		if start+pageSize < n {
			p.next = strPtr("tok-" + strconv.Itoa(len(f.pages)+1))
		}
		f.pages = append(f.pages, p)
	}
	return f
}

func videoID(i int) string { return fmt.Sprintf("vid-%03d", i) }

func titleFor(id string) string { return "title-" + id }

func (f *fakeFetcher) ListPlaylistPage(ctx context.Context, playlistID, cursor string) (*sources.PlaylistItemsResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.inFlight.Load() > 0 {
		f.pageWhileBusy.Add(1)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	idx := f.pageCalls
	f.pageCalls++
	f.cursors = append(f.cursors, cursor)
	if idx == f.pageErrAt {
		return nil, f.pageErr
	}
	if idx >= len(f.pages) {
		return nil, errors.New("fake: page requested past the last page")
	}
	p := f.pages[idx]
	resp := &sources.PlaylistItemsResponse{NextPageToken: p.next, Items: []sources.PlaylistItem{}}
	for _, id := range p.ids {
		resp.Items = append(resp.Items, sources.PlaylistItem{
			ID:             "item-" + id,
			ContentDetails: sources.PlaylistItemContentDetails{VideoID: id},
		})
	}
	return resp, nil
}

func (f *fakeFetcher) track() func() {
	n := f.inFlight.Add(1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}
	return func() { f.inFlight.Add(-1) }
}

func (f *fakeFetcher) GetVideoDetails(ctx context.Context, ids []string) (*sources.VideosResponse, error) {
	defer f.track()()
	f.mu.Lock()
	f.detailsCalls = append(f.detailsCalls, append([]string(nil), ids...))
	f.mu.Unlock()

	if f.detailsHook != nil {
		if err := f.detailsHook(ctx, ids); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	for _, id := range ids {
		if err := f.detailsErr[id]; err != nil {
			return nil, err
		}
	}
	if f.batchResp != nil {
		return &sources.VideosResponse{Items: f.batchResp(ids)}, nil
	}
	resp := &sources.VideosResponse{}
	for _, id := range ids {
		if f.missing[id] {
			continue
		}
		resp.Items = append(resp.Items, fakeVideo(id))
	}
	return resp, nil
}

func fakeVideo(id string) sources.Video {
	return sources.Video{
		ID:             id,
		Snippet:        sources.VideoSnippet{Title: titleFor(id), ChannelTitle: "chan"},
		ContentDetails: sources.VideoContentDetails{Duration: "PT1M2S"},
		Statistics: sources.VideoStatistics{
			ViewCount:     "9007199254740993",
			LikeCount:     "10",
			DislikeCount:  "1",
			FavoriteCount: "0",
			CommentCount:  "4",
		},
	}
}

func (f *fakeFetcher) GetComments(ctx context.Context, videoID string) (*sources.CommentThreadsResponse, error) {
	defer f.track()()
	f.commentCalls.Add(1)
	if f.commentsHook != nil {
		if err := f.commentsHook(ctx, videoID); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := f.commentsErr[videoID]; err != nil {
		return nil, err
	}
	n := f.threads
	if n == 0 {
		n = 2
	}
	resp := &sources.CommentThreadsResponse{}
	for i := range n {
		var t sources.CommentThread
		t.Snippet.TopLevelComment.Snippet = sources.CommentSnippet{
			AuthorDisplayName: "author-" + strconv.Itoa(i),
			TextOriginal:      videoID + " comment " + strconv.Itoa(i),
			LikeCount:         "3",
			PublishedAt:       "2020-01-01T00:00:00Z",
		}
		resp.Items = append(resp.Items, t)
	}
	return resp, nil
}

func (f *fakeFetcher) calls() (pages int, cursors []string, details [][]string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.pageCalls, append([]string(nil), f.cursors...), append([][]string(nil), f.detailsCalls...)
}
