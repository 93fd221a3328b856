package sources

import "encoding/json"

// --- YouTube Data API v3 types ---

// PlaylistItemsResponse is one page of playlistItems.list.
// NextPageToken is nil when the API omits it, which marks the last page.
type PlaylistItemsResponse struct {
	NextPageToken *string        `json:"nextPageToken"`
	Items         []PlaylistItem `json:"items"`
	PageInfo      PageInfo       `json:"pageInfo"`
}

type PageInfo struct {
	TotalResults   int `json:"totalResults"`
	ResultsPerPage int `json:"resultsPerPage"`
}

type PlaylistItem struct {
	ID             string                     `json:"id"`
	ContentDetails PlaylistItemContentDetails `json:"contentDetails"`
}

type PlaylistItemContentDetails struct {
	VideoID          string `json:"videoId"`
	VideoPublishedAt string `json:"videoPublishedAt"`
}

// VideosResponse is videos.list with part=snippet,contentDetails,statistics.
type VideosResponse struct {
	Items []Video `json:"items"`
}

type Video struct {
	ID             string              `json:"id"`
	Snippet        VideoSnippet        `json:"snippet"`
	ContentDetails VideoContentDetails `json:"contentDetails"`
	Statistics     VideoStatistics     `json:"statistics"`
}

type VideoSnippet struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	ChannelTitle string `json:"channelTitle"`
	PublishedAt  string `json:"publishedAt"`
}

type VideoContentDetails struct {
	Duration   string `json:"duration"` // ISO 8601, e.g. PT4M13S
	Definition string `json:"definition"`
}

// VideoStatistics counters arrive as decimal strings and are kept that way.
type VideoStatistics struct {
	ViewCount     string `json:"viewCount"`
	LikeCount     string `json:"likeCount"`
	DislikeCount  string `json:"dislikeCount"`
	FavoriteCount string `json:"favoriteCount"`
	CommentCount  string `json:"commentCount"`
}

// CommentThreadsResponse is commentThreads.list with part=snippet.
type CommentThreadsResponse struct {
	Items []CommentThread `json:"items"`
}

type CommentThread struct {
	ID      string               `json:"id"`
	Snippet CommentThreadSnippet `json:"snippet"`
}

type CommentThreadSnippet struct {
	VideoID         string          `json:"videoId"`
	TopLevelComment TopLevelComment `json:"topLevelComment"`
	TotalReplyCount json.Number     `json:"totalReplyCount"`
}

type TopLevelComment struct {
	ID      string         `json:"id"`
	Snippet CommentSnippet `json:"snippet"`
}

// CommentSnippet.LikeCount is a JSON number upstream; json.Number keeps its decimal text.
type CommentSnippet struct {
	AuthorDisplayName     string      `json:"authorDisplayName"`
	AuthorProfileImageURL string      `json:"authorProfileImageUrl"`
	TextOriginal          string      `json:"textOriginal"`
	TextDisplay           string      `json:"textDisplay"`
	LikeCount             json.Number `json:"likeCount"`
	PublishedAt           string      `json:"publishedAt"`
}
