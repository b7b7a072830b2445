package link

import (
	"fmt"
	"net/url"
	"strings"
)

// trackingParams are stripped from every normalized URL so that otherwise
// identical links dedupe to one visited entry.
var trackingParams = []string{
	"utm_source", "utm_medium", "utm_campaign", "utm_term", "utm_content",
}

// Normalizer canonicalizes discovered references into comparable absolute
// URLs. It is a pure function of its inputs; determinism is what makes the
// visited-set dedupe correct.
type Normalizer struct {
	scheme string
	host   string
}

// NewNormalizer builds a normalizer from the crawl's seed URL.
func NewNormalizer(seed string) (*Normalizer, error) {
	u, err := url.Parse(seed)
	if err != nil {
		return nil, fmt.Errorf("invalid seed URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("seed URL %q has no scheme or host", seed)
	}
	return &Normalizer{scheme: u.Scheme, host: u.Host}, nil
}

// Host returns the seed host the normalizer was built from.
func (n *Normalizer) Host() string { return n.host }

// Normalize resolves ref against base and canonicalizes it: protocol-relative
// and root-relative references are absolutized against the seed, relative
// paths against base's directory; the fragment, known tracking parameters and
// a single trailing slash are stripped. Non-HTTP schemes pass through
// untouched.
func (n *Normalizer) Normalize(ref, base string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ref
	}

	var abs string
	switch {
	case strings.HasPrefix(ref, "//"):
		abs = n.scheme + ":" + ref
	case strings.HasPrefix(ref, "/"):
		abs = n.scheme + "://" + n.host + ref
	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		abs = ref
	case strings.Contains(ref, ":"):
		// data:, mailto:, tel:, javascript: and friends are not ours to touch.
		return ref
	default:
		abs = joinRelative(base, ref)
	}

	if i := strings.Index(abs, "#"); i >= 0 {
		abs = abs[:i]
	}
	abs = stripTracking(abs)
	if strings.HasSuffix(abs, "/") {
		abs = abs[:len(abs)-1]
	}
	return abs
}

// joinRelative resolves a scheme-less relative path against the directory of
// base (base minus its last path segment).
func joinRelative(base, ref string) string {
	dir := base
	authority := strings.Index(base, "://")
	if i := strings.LastIndex(base, "/"); authority >= 0 && i > authority+2 {
		dir = base[:i]
	}
	return dir + "/" + ref
}

// stripTracking removes known tracking query parameters. A URL whose query
// cannot be parsed is returned unchanged; normalization failures are never
// fatal.
func stripTracking(raw string) string {
	if !strings.Contains(raw, "?") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return raw
	}
	for _, p := range trackingParams {
		q.Del(p)
	}
	u.RawQuery = q.Encode()
	return u.String()
}
