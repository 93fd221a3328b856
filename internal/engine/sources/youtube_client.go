package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/anatolykoptev/go_playlist/internal/engine"
)

const (
	ytDataAPIBase = "https://www.googleapis.com"
	ytDataAPIPath = "/youtube/v3/"

	// MaxPageSize is the largest maxResults playlistItems.list accepts,
	// and the most ids videos.list accepts in one comma-joined call.
	MaxPageSize = 50

	defaultCommentLimit = 3
	maxCommentLimit     = 100
)

// YouTubeConfig configures a YouTubeClient. Zero values fall back to defaults.
type YouTubeConfig struct {
	APIKey       string
	BaseURL      string        // default https://www.googleapis.com
	PageSize     int           // playlistItems maxResults, 1..50, default 50
	CommentLimit int           // commentThreads maxResults, default 3
	Timeout      time.Duration // per request, used when HTTPClient is nil
	HTTPClient   *http.Client
	Retry        *engine.RetryConfig // nil = engine.DefaultRetryConfig
}

// YouTubeClient calls the YouTube Data API v3. Safe for concurrent use.
type YouTubeClient struct {
	baseURL      string
	pageSize     int
	commentLimit int
	httpClient   *http.Client
	retry        engine.RetryConfig
}

// NewYouTubeClient builds a client once; the API key is attached to every request
// by the client's transport rather than by each call site.
func NewYouTubeClient(cfg YouTubeConfig) *YouTubeClient {
	hc := cfg.HTTPClient
	if hc == nil {
		hc = engine.NewHTTPClient(cfg.Timeout)
	}
	decorated := *hc
	decorated.Transport = &keyTransport{key: cfg.APIKey, base: hc.Transport}

	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = ytDataAPIBase
	}

	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	commentLimit := cfg.CommentLimit
	if commentLimit <= 0 {
		commentLimit = defaultCommentLimit
	}
	commentLimit = min(commentLimit, maxCommentLimit)

	retry := engine.DefaultRetryConfig
	if cfg.Retry != nil {
		retry = *cfg.Retry
	}

	return &YouTubeClient{
		baseURL:      base,
		pageSize:     pageSize,
		commentLimit: commentLimit,
		httpClient:   &decorated,
		retry:        retry,
	}
}

// PageSize reports the maxResults used for playlist pages.
func (c *YouTubeClient) PageSize() int { return c.pageSize }

// ListPlaylistPage fetches one page of playlist items. An empty cursor requests the first page.
func (c *YouTubeClient) ListPlaylistPage(ctx context.Context, playlistID, cursor string) (*PlaylistItemsResponse, error) {
	engine.IncrPlaylistPageRequests()
	params := url.Values{}
	params.Set("part", "contentDetails")
	params.Set("maxResults", strconv.Itoa(c.pageSize))
	params.Set("playlistId", playlistID)
	if cursor != "" {
		params.Set("pageToken", cursor)
	}

	var out PlaylistItemsResponse
	if err := c.get(ctx, "playlistItems", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetVideoDetails fetches snippet, contentDetails and statistics for up to 50 videos.
// Items come back in request order; ids the API cannot resolve are omitted.
func (c *YouTubeClient) GetVideoDetails(ctx context.Context, ids []string) (*VideosResponse, error) {
	if len(ids) == 0 {
		return nil, errors.New("youtube videos: no ids")
	}
	if len(ids) > MaxPageSize {
		return nil, fmt.Errorf("youtube videos: %d ids exceeds limit of %d", len(ids), MaxPageSize)
	}
	engine.IncrVideoDetailRequests()
	params := url.Values{}
	params.Set("part", "snippet,contentDetails,statistics")
	params.Set("id", strings.Join(ids, ","))

	var out VideosResponse
	if err := c.get(ctx, "videos", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetComments fetches the top comment threads of a video, ordered by relevance.
func (c *YouTubeClient) GetComments(ctx context.Context, videoID string) (*CommentThreadsResponse, error) {
	engine.IncrCommentRequests()
	params := url.Values{}
	params.Set("part", "snippet")
	params.Set("order", "relevance")
	params.Set("maxResults", strconv.Itoa(c.commentLimit))
	params.Set("videoId", videoID)

	var out CommentThreadsResponse
	if err := c.get(ctx, "commentThreads", params, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// get performs one GET against the Data API and decodes a 200 body into out.
func (c *YouTubeClient) get(ctx context.Context, endpoint string, params url.Values, out any) error {
	apiURL := c.baseURL + ytDataAPIPath + endpoint + "?" + params.Encode()

	resp, err := engine.RetryHTTP(ctx, c.retry, func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", engine.UserAgentBot)
		req.Header.Set("Accept", "application/json")
		return c.httpClient.Do(req)
	})
	if err != nil {
		engine.IncrUpstreamErrors()
		return transportError(endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		engine.IncrUpstreamErrors()
		return parseUpstreamError(endpoint, resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		engine.IncrUpstreamErrors()
		return &UpstreamError{Endpoint: endpoint, Message: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

// keyTransport adds the API key query parameter to a clone of each outgoing request.
type keyTransport struct {
	key  string
	base http.RoundTripper
}

func (t *keyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.key == "" {
		return base.RoundTrip(req)
	}
	// Clone so the caller's request (and its URL) is never mutated.
	r := req.Clone(req.Context())
	q := r.URL.Query()
	q.Set("key", t.key)
	r.URL.RawQuery = q.Encode()
	return base.RoundTrip(r)
}
