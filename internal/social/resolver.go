package social

import (
	"net/url"
	"strings"
)

// HandleKind tags the outcome of resolving a profile URL to a handle.
type HandleKind int

const (
	// HandleAbsent means no handle could be extracted.
	HandleAbsent HandleKind = iota
	// HandleBlacklisted means the handle is on the configured blacklist.
	HandleBlacklisted
	// HandleResolved means the handle is usable for a reach lookup.
	HandleResolved
)

// HandleOutcome is the result of extracting a handle from a profile URL.
type HandleOutcome struct {
	Kind   HandleKind
	Handle string
}

// ResolveHandle extracts the account handle from a profile or status URL.
// The handle is the first non-empty path segment. Malformed URLs, empty
// input, and empty paths all resolve to HandleAbsent. Blacklist matching is
// case-sensitive.
func ResolveHandle(profileURL string, blacklist []string) HandleOutcome {
	if profileURL == "" {
		return HandleOutcome{Kind: HandleAbsent}
	}

	parsed, err := url.Parse(profileURL)
	if err != nil || parsed.Host == "" {
		return HandleOutcome{Kind: HandleAbsent}
	}

	handle := firstPathSegment(parsed.Path)
	if handle == "" {
		return HandleOutcome{Kind: HandleAbsent}
	}

	for _, banned := range blacklist {
		if handle == banned {
			return HandleOutcome{Kind: HandleBlacklisted, Handle: handle}
		}
	}

	return HandleOutcome{Kind: HandleResolved, Handle: handle}
}

func firstPathSegment(path string) string {
	for _, segment := range strings.Split(strings.Trim(path, "/"), "/") {
		if segment != "" {
			return segment
		}
	}
	return ""
}
