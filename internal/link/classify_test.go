package link

import (
	"testing"

	"webcensus/internal/models"
)

func TestClassifyTagKindWins(t *testing.T) {
	cases := []struct {
		url  string
		tag  models.TagKind
		want models.AssetType
	}{
		{"https://ex.com/about", models.TagAnchor, models.AssetLink},
		{"https://ex.com/app.min.js", models.TagScript, models.AssetScript},
		{"https://ex.com/logo", models.TagImg, models.AssetImage},
		{"https://ex.com/site.css", models.TagStylesheet, models.AssetCSS},
		{"https://ex.com/SITE.CSS", models.TagStylesheet, models.AssetCSS},
	}
	for _, c := range cases {
		if got := Classify(c.url, c.tag); got != c.want {
			t.Fatalf("Classify(%q, %q) = %q, want %q", c.url, c.tag, got, c.want)
		}
	}
}

func TestClassifyStylesheetLinkWithoutCSSSuffixFallsThrough(t *testing.T) {
	// A <link rel="stylesheet"> pointing at a URL without a .css suffix is
	// classified by extension fallback, not forced to css.
	if got := Classify("https://ex.com/styles?v=2", models.TagStylesheet); got != models.AssetOther {
		t.Fatalf("expected other, got %q", got)
	}
}

func TestClassifyExtensionSniffing(t *testing.T) {
	cases := []struct {
		url  string
		want models.AssetType
	}{
		{"https://ex.com/a.png", models.AssetImage},
		{"https://ex.com/a.JPG", models.AssetImage},
		{"https://ex.com/a.svg?v=3", models.AssetImage},
		{"https://ex.com/site.css", models.AssetCSS},
		{"https://ex.com/app.js", models.AssetScript},
		{"https://ex.com/report.pdf", models.AssetOther},
		{"https://ex.com/about", models.AssetOther},
		{"data:image/png;base64,AAAA", models.AssetImage},
	}
	for _, c := range cases {
		if got := Classify(c.url, models.TagNone); got != c.want {
			t.Fatalf("Classify(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}

func TestInbound(t *testing.T) {
	if !Inbound("ex.com", "https://ex.com/about") {
		t.Fatal("expected same-host URL to be inbound")
	}
	if Inbound("ex.com", "https://other.org") {
		t.Fatal("expected foreign host to be outbound")
	}
	if Inbound("ex.com", "https://sub.ex.com/a") {
		t.Fatal("expected subdomain to be outbound (exact host match)")
	}
}
