// Package playlistserver exposes playlist aggregation as MCP tools.
package playlistserver

import (
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/anatolykoptev/go_playlist/internal/engine/playlist"
)

// DefaultTimeout bounds one playlist_videos call when Config.Timeout is unset.
const DefaultTimeout = 2 * time.Minute

// Config carries what the tools need. Walker is required.
type Config struct {
	Walker       *playlist.Walker
	Timeout      time.Duration
	Concurrency  int
	CommentLimit int
}

// RegisterTools registers playlist_videos on the given MCP server.
func RegisterTools(server *mcp.Server, cfg Config) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	registerPlaylistVideos(server, cfg)
}
