package models

// FrontierItem is one unit of crawl work: a discovered URL awaiting fetch.
// SourcePages is the accumulated referrer chain from the seed to this
// discovery. Items are consumed exactly once by a worker.
type FrontierItem struct {
	URL         string    `json:"url"`
	Referrer    string    `json:"referrer,omitempty"`
	Depth       int       `json:"depth"`
	SourcePages []string  `json:"source_pages,omitempty"`
	AssetType   AssetType `json:"asset_type"`
}
