package models

import "time"

// ResourceRecord holds everything known about one normalized URL.
// A record is created as a stub on first discovery (Status zero) and is
// overwritten at most once, by the fetch that owns the URL.
type ResourceRecord struct {
	URL         string    `json:"url"`
	Status      int       `json:"status"`
	ContentType string    `json:"content_type,omitempty"`
	FinalURL    string    `json:"final_url,omitempty"`
	IsRedirect  bool      `json:"is_redirect"`
	Depth       int       `json:"depth"`
	AssetType   AssetType `json:"asset_type"`
	IsInbound   bool      `json:"is_inbound"`
	CheckedAt   time.Time `json:"checked_at,omitzero"`
	Error       string    `json:"error,omitempty"`
}

// Checked reports whether the owning fetch has completed for this record.
func (r ResourceRecord) Checked() bool {
	return !r.CheckedAt.IsZero()
}
