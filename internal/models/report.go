package models

// StatusSample is one example URL for a status bucket, with the first page
// it was found on.
type StatusSample struct {
	URL     string `json:"url"`
	FoundOn string `json:"found_on,omitempty"`
}

// StatusBucket aggregates URLs that share an HTTP status code.
type StatusBucket struct {
	Total    int            `json:"total"`
	Internal int            `json:"internal"`
	External int            `json:"external"`
	Samples  []StatusSample `json:"samples,omitempty"`
}

// ReportSummary holds the top-level crawl totals.
type ReportSummary struct {
	Total    int `json:"total"`
	Internal int `json:"internal"`
	External int `json:"external"`
}

// Report is the aggregate produced once after the crawl terminates.
type Report struct {
	RunID       string                `json:"run_id,omitempty"`
	Seed        string                `json:"seed"`
	Summary     ReportSummary         `json:"summary"`
	Types       map[AssetType]int     `json:"types"`
	StatusCodes map[int]*StatusBucket `json:"status_codes"`
}
