package link

import (
	"net/url"
	"strings"

	"webcensus/internal/models"
)

var imageExtensions = []string{
	".png", ".jpg", ".jpeg", ".gif", ".webp", ".svg", ".ico", ".bmp", ".avif",
}

// Classify maps a URL plus the element kind it was found in to an asset
// category. An explicit tag kind wins; a stylesheet <link> counts as css only
// when the URL actually ends in .css, otherwise classification falls back to
// extension sniffing.
func Classify(rawURL string, tag models.TagKind) models.AssetType {
	switch tag {
	case models.TagAnchor:
		return models.AssetLink
	case models.TagScript:
		return models.AssetScript
	case models.TagImg:
		return models.AssetImage
	case models.TagStylesheet:
		if strings.HasSuffix(strings.ToLower(pathOf(rawURL)), ".css") {
			return models.AssetCSS
		}
	}

	if strings.HasPrefix(rawURL, "data:image") {
		return models.AssetImage
	}
	p := strings.ToLower(pathOf(rawURL))
	for _, ext := range imageExtensions {
		if strings.HasSuffix(p, ext) {
			return models.AssetImage
		}
	}
	switch {
	case strings.HasSuffix(p, ".css"):
		return models.AssetCSS
	case strings.HasSuffix(p, ".js"):
		return models.AssetScript
	}
	return models.AssetOther
}

// Inbound reports whether rawURL points at the given seed hostname.
func Inbound(seedHost, rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return u.Host == seedHost
}

// pathOf extracts the path component for extension sniffing, ignoring any
// query string.
func pathOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if i := strings.IndexAny(rawURL, "?#"); i >= 0 {
			return rawURL[:i]
		}
		return rawURL
	}
	return u.Path
}
