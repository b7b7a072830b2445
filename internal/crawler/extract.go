package crawler

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"webcensus/internal/models"
)

// Ref is one raw reference lifted out of a fetched page, before
// normalization.
type Ref struct {
	Target string
	Tag    models.TagKind
}

// ExtractRefs pulls every anchor, stylesheet link, script and image
// reference out of an HTML document.
func ExtractRefs(body []byte) ([]Ref, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	var refs []Ref
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		if href, ok := sel.Attr("href"); ok {
			refs = append(refs, Ref{Target: href, Tag: models.TagAnchor})
		}
	})
	doc.Find("link[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok {
			return
		}
		tag := models.TagNone
		if rel, _ := sel.Attr("rel"); strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			tag = models.TagStylesheet
		}
		refs = append(refs, Ref{Target: href, Tag: tag})
	})
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			refs = append(refs, Ref{Target: src, Tag: models.TagScript})
		}
	})
	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		if src, ok := sel.Attr("src"); ok {
			refs = append(refs, Ref{Target: src, Tag: models.TagImg})
		}
	})
	return refs, nil
}

// skipRef filters references the crawl never records: script/mail/tel
// pseudo-links and anchors that inline an image as a data URI.
func skipRef(ref Ref) bool {
	t := strings.TrimSpace(ref.Target)
	switch {
	case t == "":
		return true
	case strings.HasPrefix(t, "javascript:"):
		return true
	case strings.HasPrefix(t, "mailto:"):
		return true
	case strings.HasPrefix(t, "tel:"):
		return true
	case ref.Tag == models.TagAnchor && strings.HasPrefix(t, "data:image"):
		return true
	}
	return false
}

// isHTML reports whether a Content-Type header denotes an HTML document.
func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}

// isDataURL and isDataImage classify data: URIs for the skip-data-images
// handling.
func isDataURL(rawURL string) bool   { return strings.HasPrefix(rawURL, "data:") }
func isDataImage(rawURL string) bool { return strings.HasPrefix(rawURL, "data:image") }
