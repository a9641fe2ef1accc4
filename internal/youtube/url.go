package youtube

import (
	"net/url"
	"strings"
)

// ExtractVideoID returns the video id from a watch, youtu.be, shorts or embed
// URL. Anything else is assumed to be an id already and returned trimmed.
func ExtractVideoID(urlOrID string) string {
	s := strings.TrimSpace(urlOrID)
	if !strings.Contains(s, "youtube.com/") && !strings.Contains(s, "youtu.be/") {
		return s
	}
	if !strings.Contains(s, "://") {
		s = "https://" + s
	}

	u, err := url.Parse(s)
	if err != nil {
		return strings.TrimSpace(urlOrID)
	}

	host := strings.TrimPrefix(strings.ToLower(u.Host), "www.")
	host = strings.TrimPrefix(host, "m.")
	path := strings.Trim(u.Path, "/")

	switch {
	case host == "youtu.be":
		return firstSegment(path)
	case path == "watch":
		return u.Query().Get("v")
	case strings.HasPrefix(path, "shorts/"), strings.HasPrefix(path, "embed/"), strings.HasPrefix(path, "live/"):
		return firstSegment(path[strings.Index(path, "/")+1:])
	}
	return strings.TrimSpace(urlOrID)
}

func firstSegment(p string) string {
	if i := strings.Index(p, "/"); i >= 0 {
		return p[:i]
	}
	return p
}
