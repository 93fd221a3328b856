// go_playlist: YouTube playlist aggregation MCP server.
//
// Exposes one MCP tool, playlist_videos: every video of a playlist in playlist
// order, enriched with details and top comments from the YouTube Data API v3.
// Runs as HTTP MCP server with a metrics endpoint.
package main

import (
	"log/slog"
	"os"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/anatolykoptev/go-mcpserver"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_playlist/internal/engine"
	"github.com/anatolykoptev/go_playlist/internal/engine/playlist"
	"github.com/anatolykoptev/go_playlist/internal/engine/sources"
	"github.com/anatolykoptev/go_playlist/internal/playlistserver"
)

var (
	version = "dev"
	mcpPort = env.Str("MCP_PORT", "8893")
)

func main() {
	initLogger(env.Str("LOG_LEVEL", "info"))

	cfg := playlistserver.Config{
		Walker:       playlist.NewWalker(initYouTube()),
		Timeout:      env.Duration("AGGREGATE_TIMEOUT", playlistserver.DefaultTimeout),
		Concurrency:  env.Int("AGGREGATE_CONCURRENCY", 0),
		CommentLimit: env.Int("YOUTUBE_COMMENT_LIMIT", playlist.DefaultCommentLimit),
	}

	slog.Info("starting go_playlist",
		slog.String("port", mcpPort),
		slog.Duration("aggregate_timeout", cfg.Timeout),
		slog.Int("concurrency", cfg.Concurrency),
	)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "go_playlist",
		Version: version,
	}, nil)

	playlistserver.RegisterTools(server, cfg)
	slog.Info("tools registered", slog.Int("count", 1))

	if err := mcpserver.Run(server, mcpserver.Config{
		Name:         "go_playlist",
		Version:      version,
		Port:         mcpPort,
		WriteTimeout: cfg.Timeout + 30*time.Second,
		Metrics:      engine.FormatMetrics,
	}); err != nil {
		slog.Error("server failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func initLogger(level string) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

func initYouTube() *sources.YouTubeClient {
	cfg := sources.YouTubeConfig{
		APIKey:       env.Str("YOUTUBE_API_KEY", ""),
		BaseURL:      env.Str("YOUTUBE_API_BASE", "https://www.googleapis.com"),
		PageSize:     env.Int("YOUTUBE_PAGE_SIZE", sources.MaxPageSize),
		CommentLimit: env.Int("YOUTUBE_COMMENT_LIMIT", playlist.DefaultCommentLimit),
		Timeout:      env.Duration("FETCH_TIMEOUT", 15*time.Second),
	}
	if cfg.APIKey == "" {
		slog.Warn("YOUTUBE_API_KEY is not set, upstream calls will be rejected")
	}
	client := sources.NewYouTubeClient(cfg)
	slog.Info("youtube client initialized",
		slog.String("base", cfg.BaseURL),
		slog.Int("page_size", client.PageSize()))
	return client
}
