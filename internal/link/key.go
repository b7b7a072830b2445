package link

import "encoding/base64"

// Key encodes a normalized URL into a store-safe key. The encoding must
// round-trip exactly so records and provenance sets never collide.
func Key(rawURL string) string {
	return base64.URLEncoding.EncodeToString([]byte(rawURL))
}

// ParseKey recovers the original URL from a store key.
func ParseKey(key string) (string, error) {
	b, err := base64.URLEncoding.DecodeString(key)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
