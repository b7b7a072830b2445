package link

import "testing"

func mustNormalizer(t *testing.T, seed string) *Normalizer {
	t.Helper()
	n, err := NewNormalizer(seed)
	if err != nil {
		t.Fatalf("NewNormalizer(%q): %v", seed, err)
	}
	return n
}

func TestNormalizeProtocolRelative(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("//cdn.ex.com/a.png", "https://ex.com")
	if got != "https://cdn.ex.com/a.png" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeRootRelative(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("/about", "https://ex.com/blog/post")
	if got != "https://ex.com/about" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeRelativeResolvesAgainstBaseDirectory(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("style.css", "https://ex.com/blog/post.html")
	if got != "https://ex.com/blog/style.css" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeRelativeAgainstBareHost(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("page.html", "https://ex.com")
	if got != "https://ex.com/page.html" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeStripsFragment(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("https://ex.com/docs#install", "https://ex.com")
	if got != "https://ex.com/docs" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeStripsTrailingSlash(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("https://ex.com/docs/", "https://ex.com")
	if got != "https://ex.com/docs" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeStripsTrackingParams(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("https://ex.com/p?utm_source=tw&utm_medium=social&id=7", "https://ex.com")
	if got != "https://ex.com/p?id=7" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeTrackingOnlyQueryDropsQuestionMark(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	got := n.Normalize("https://ex.com/p?utm_campaign=x", "https://ex.com")
	if got != "https://ex.com/p" {
		t.Fatalf("unexpected result: %s", got)
	}
}

func TestNormalizeBadQueryFailsOpen(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	raw := "https://ex.com/p?a=%zz"
	if got := n.Normalize(raw, "https://ex.com"); got != raw {
		t.Fatalf("expected URL unchanged on unparseable query, got %s", got)
	}
}

func TestNormalizeLeavesForeignSchemes(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	for _, raw := range []string{"mailto:me@ex.com", "tel:+123", "javascript:void(0)", "data:image/png;base64,AAAA"} {
		if got := n.Normalize(raw, "https://ex.com"); got != raw {
			t.Fatalf("expected %q unchanged, got %q", raw, got)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := mustNormalizer(t, "https://ex.com")
	inputs := []string{
		"//ex.com/a.png",
		"/about/",
		"https://other.org/path/?utm_source=a&q=1#top",
		"css/site.css",
		"https://ex.com",
	}
	for _, in := range inputs {
		once := n.Normalize(in, "https://ex.com/dir/page")
		twice := n.Normalize(once, "https://ex.com/dir/page")
		if once != twice {
			t.Fatalf("normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}
