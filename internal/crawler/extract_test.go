package crawler

import (
	"testing"

	"webcensus/internal/models"
)

func TestExtractRefs(t *testing.T) {
	body := []byte(`<html><head>
		<link rel="stylesheet" href="/main.css">
		<link rel="icon" href="/favicon.ico">
		<script src="/app.js"></script>
	</head><body>
		<a href="/about">about</a>
		<a href="https://other.example/page">out</a>
		<img src="/logo.png">
		<a>no href</a>
		<script>inline()</script>
	</body></html>`)

	refs, err := ExtractRefs(body)
	if err != nil {
		t.Fatalf("ExtractRefs: %v", err)
	}

	want := map[string]models.TagKind{
		"/about":                   models.TagAnchor,
		"https://other.example/page": models.TagAnchor,
		"/main.css":                models.TagStylesheet,
		"/favicon.ico":             models.TagNone,
		"/app.js":                  models.TagScript,
		"/logo.png":                models.TagImg,
	}
	if len(refs) != len(want) {
		t.Fatalf("expected %d refs, got %d: %v", len(want), len(refs), refs)
	}
	for _, ref := range refs {
		tag, ok := want[ref.Target]
		if !ok {
			t.Fatalf("unexpected ref %+v", ref)
		}
		if ref.Tag != tag {
			t.Fatalf("ref %s: tag %q, want %q", ref.Target, ref.Tag, tag)
		}
	}
}

func TestSkipRef(t *testing.T) {
	cases := []struct {
		ref  Ref
		want bool
	}{
		{Ref{Target: "", Tag: models.TagAnchor}, true},
		{Ref{Target: "  ", Tag: models.TagAnchor}, true},
		{Ref{Target: "javascript:void(0)", Tag: models.TagAnchor}, true},
		{Ref{Target: "mailto:a@b.c", Tag: models.TagAnchor}, true},
		{Ref{Target: "tel:+1234", Tag: models.TagAnchor}, true},
		{Ref{Target: "data:image/png;base64,AA", Tag: models.TagAnchor}, true},
		{Ref{Target: "data:image/png;base64,AA", Tag: models.TagImg}, false},
		{Ref{Target: "/page", Tag: models.TagAnchor}, false},
	}
	for _, c := range cases {
		if got := skipRef(c.ref); got != c.want {
			t.Fatalf("skipRef(%+v) = %v, want %v", c.ref, got, c.want)
		}
	}
}

func TestIsHTML(t *testing.T) {
	if !isHTML("text/html; charset=utf-8") {
		t.Fatal("expected html content type to match")
	}
	if isHTML("application/json") {
		t.Fatal("json matched as html")
	}
	if isHTML("") {
		t.Fatal("empty content type matched as html")
	}
}
