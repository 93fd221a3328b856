package playlist

import (
	"regexp"
	"strings"
)

var (
	playlistIDRe = regexp.MustCompile(`^[A-Za-z0-9_-]{2,64}$`)
	// listParamRe matches the list= parameter of any YouTube watch or playlist URL.
	listParamRe = regexp.MustCompile(`[?&]list=([A-Za-z0-9_-]+)`)
)

// ParsePlaylistID accepts a bare playlist id or a YouTube URL carrying list=
// and returns the id, or an *InputError.
func ParsePlaylistID(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", &InputError{Reason: "playlist id is required"}
	}
	if m := listParamRe.FindStringSubmatch(s); m != nil {
		s = m[1]
	}
	if !playlistIDRe.MatchString(s) {
		return "", &InputError{Value: input, Reason: "malformed playlist id"}
	}
	return s, nil
}
