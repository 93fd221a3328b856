package playlist

// PlaylistItemRef is one playlist member. Position is its zero-based rank
// across the whole playlist, not within its page.
type PlaylistItemRef struct {
	VideoID  string
	Position int
}

// EnrichState tells whether a field group of a VideoRecord has been filled.
type EnrichState string

const (
	StatePending EnrichState = "pending"
	StateOK      EnrichState = "ok"
	StateFailed  EnrichState = "failed"
	StateSkipped EnrichState = "skipped"
)

// VideoDetails is the field group written by the video-details task.
// Counters are the upstream decimal strings, never parsed.
type VideoDetails struct {
	Title         string `json:"title"`
	ChannelTitle  string `json:"channelTitle"`
	Duration      string `json:"duration"`
	ViewCount     string `json:"viewCount"`
	LikeCount     string `json:"likeCount"`
	DislikeCount  string `json:"dislikeCount"`
	FavoriteCount string `json:"favoriteCount"`
	CommentCount  string `json:"commentCount"`
}

// CommentRecord is one top-level comment.
type CommentRecord struct {
	AuthorName            string `json:"authorName"`
	AuthorProfileImageURL string `json:"authorProfileImageUrl"`
	Text                  string `json:"text"`
	LikeCount             string `json:"likeCount"`
	PublishedAt           string `json:"publishedAt"`
}

// VideoRecord is the aggregated view of one playlist item. It starts as a
// skeleton (id, position, URL, pending states) and the details and comments
// tasks each patch only their own field group.
type VideoRecord struct {
	VideoID  string `json:"id"`
	Position int    `json:"position"`
	URL      string `json:"url"`
	VideoDetails
	TopComments   []CommentRecord `json:"topComments"`
	DetailsState  EnrichState     `json:"detailsState"`
	CommentsState EnrichState     `json:"commentsState"`
}

// Enriched reports whether every requested field group was filled.
func (v VideoRecord) Enriched() bool {
	return v.DetailsState != StateFailed && v.DetailsState != StatePending &&
		v.CommentsState != StateFailed && v.CommentsState != StatePending
}

// DefaultCommentLimit is how many top comments are kept per video.
const DefaultCommentLimit = 3

// Options selects which enrichments run and how failures and pages are handled.
type Options struct {
	FetchVideoDetails bool
	FetchComments     bool
	// BatchVideoDetails fetches details with one comma-joined call per page
	// instead of one call per item.
	BatchVideoDetails bool
	// Strict aborts the whole aggregation on the first enrichment failure.
	Strict bool
	// Unbounded skips the per-page barrier: the next page is requested while
	// the previous page's enrichment is still in flight.
	Unbounded bool
	// Concurrency caps in-flight enrichment tasks; 0 means unlimited.
	Concurrency int
	// CommentLimit caps TopComments; 0 means DefaultCommentLimit.
	CommentLimit int
}

// DefaultOptions enriches with details and comments, per item, lenient and bounded.
func DefaultOptions() Options {
	return Options{
		FetchVideoDetails: true,
		FetchComments:     true,
	}
}

func (o Options) commentLimit() int {
	if o.CommentLimit <= 0 {
		return DefaultCommentLimit
	}
	return o.CommentLimit
}

// Stage names the call that failed.
type Stage string

const (
	StagePage         Stage = "playlist_page"
	StageVideoDetails Stage = "video_details"
	StageComments     Stage = "comments"
)

// ItemFailure is a lenient-mode enrichment failure for one item.
type ItemFailure struct {
	Position int
	VideoID  string
	Stage    Stage
	Err      error
}

func (f ItemFailure) Error() string {
	return string(f.Stage) + " failed for " + f.VideoID + ": " + f.Err.Error()
}

// Result is a completed aggregation. Videos[i].Position == i for every i.
type Result struct {
	PlaylistID string
	Pages      int
	Videos     []VideoRecord
	// Failures lists items left partially enriched, ordered by position.
	Failures []ItemFailure
}

// Complete reports whether every item was fully enriched.
func (r *Result) Complete() bool { return len(r.Failures) == 0 }
