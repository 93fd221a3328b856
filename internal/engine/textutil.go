package engine

import (
	"strings"

	"github.com/anatolykoptev/go-kit/strutil"
)

// User-Agent sent on upstream API calls.
const UserAgentBot = "GoPlaylist/1.0"

// YouTubeWatchURL is the prefix for a video's watch page.
const YouTubeWatchURL = "https://www.youtube.com/watch?v="

// TruncateRunes caps s at limit runes, appending suffix if truncated.
// Pass suffix="" for no suffix. Safe for UTF-8 (Cyrillic, CJK, emoji).
func TruncateRunes(s string, limit int, suffix string) string {
	return strutil.TruncateWith(s, limit, suffix)
}

// ShortID returns the last n characters of id, for compact log lines.
func ShortID(id string, n int) string {
	id = strings.TrimSpace(id)
	if n <= 0 || len(id) <= n {
		return id
	}
	return id[len(id)-n:]
}
