package link

import "testing"

func TestKeyRoundTrip(t *testing.T) {
	urls := []string{
		"https://ex.com",
		"https://ex.com/p?a=1&b=2",
		"https://ex.com/path with space",
		"https://пример.рф/страница?q=значение",
		"https://ex.com/p?x=a=b&y=c",
	}
	for _, u := range urls {
		key := Key(u)
		got, err := ParseKey(key)
		if err != nil {
			t.Fatalf("ParseKey(%q): %v", key, err)
		}
		if got != u {
			t.Fatalf("round trip mismatch: %q -> %q", u, got)
		}
	}
}

func TestKeyDistinctURLsDistinctKeys(t *testing.T) {
	if Key("https://ex.com/a") == Key("https://ex.com/b") {
		t.Fatal("expected distinct keys for distinct URLs")
	}
}

func TestParseKeyRejectsGarbage(t *testing.T) {
	if _, err := ParseKey("not base64!!"); err == nil {
		t.Fatal("expected error for invalid key")
	}
}
