package playlistserver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_playlist/internal/engine/playlist"
)

type PlaylistVideosInput struct {
	Playlist     string `json:"playlist" jsonschema:"YouTube playlist id or any YouTube URL with a list= parameter"`
	SkipDetails  bool   `json:"skip_details,omitempty" jsonschema:"Do not fetch title, duration and statistics per video"`
	SkipComments bool   `json:"skip_comments,omitempty" jsonschema:"Do not fetch top comments per video"`
	Batch        bool   `json:"batch,omitempty" jsonschema:"Fetch video details for a whole page in one request"`
	Strict       bool   `json:"strict,omitempty" jsonschema:"Fail the whole call on the first enrichment error instead of returning partial items"`
	Unbounded    bool   `json:"unbounded,omitempty" jsonschema:"Keep fetching pages while earlier pages are still being enriched"`
}

type FailureOutput struct {
	Position int    `json:"position"`
	VideoID  string `json:"video_id"`
	Stage    string `json:"stage"`
	Error    string `json:"error"`
}

type PlaylistVideosOutput struct {
	PlaylistID string                 `json:"playlist_id"`
	Count      int                    `json:"count"`
	Complete   bool                   `json:"complete"`
	Videos     []playlist.VideoRecord `json:"videos"`
	Failures   []FailureOutput        `json:"failures,omitempty"`
}

func registerPlaylistVideos(server *mcp.Server, cfg Config) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "playlist_videos",
		Description: "List every video of a YouTube playlist in playlist order, enriched with title, channel, duration, view/like/comment counts and the top comments. Accepts a playlist id or URL. Items whose enrichment failed are returned with empty fields and listed under failures unless strict is set.",
		Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true},
	}, func(ctx context.Context, req *mcp.CallToolRequest, input PlaylistVideosInput) (*mcp.CallToolResult, PlaylistVideosOutput, error) {
		out, err := playlistVideos(ctx, cfg, input)
		if err != nil {
			return nil, PlaylistVideosOutput{}, err
		}
		return nil, out, nil
	})
}

func playlistVideos(ctx context.Context, cfg Config, input PlaylistVideosInput) (PlaylistVideosOutput, error) {
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}

	res, err := cfg.Walker.Aggregate(ctx, input.Playlist, optionsFor(cfg, input))
	if err != nil {
		var ierr *playlist.InputError
		if errors.As(err, &ierr) {
			return PlaylistVideosOutput{}, err
		}
		slog.Warn("playlist_videos error", slog.String("playlist", input.Playlist), slog.Any("error", err))
		return PlaylistVideosOutput{}, fmt.Errorf("playlist aggregation failed: %w", err)
	}
	return outputFor(res), nil
}

func optionsFor(cfg Config, input PlaylistVideosInput) playlist.Options {
	return playlist.Options{
		FetchVideoDetails: !input.SkipDetails,
		FetchComments:     !input.SkipComments,
		BatchVideoDetails: input.Batch,
		Strict:            input.Strict,
		Unbounded:         input.Unbounded,
		Concurrency:       cfg.Concurrency,
		CommentLimit:      cfg.CommentLimit,
	}
}

func outputFor(res *playlist.Result) PlaylistVideosOutput {
	out := PlaylistVideosOutput{
		PlaylistID: res.PlaylistID,
		Count:      len(res.Videos),
		Complete:   res.Complete(),
		Videos:     res.Videos,
	}
	for _, f := range res.Failures {
		out.Failures = append(out.Failures, FailureOutput{
			Position: f.Position,
			VideoID:  f.VideoID,
			Stage:    string(f.Stage),
			Error:    f.Err.Error(),
		})
	}
	return out
}
