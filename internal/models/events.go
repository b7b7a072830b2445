package models

// Event kinds published on the progress stream.
const (
	EventProgress = "progress"
	EventChecked  = "url-checked"
	EventSummary  = "summary"
)

// ProgressEvent reports crawl progress: completed fetches out of all URLs
// claimed so far.
type ProgressEvent struct {
	RunID   string `json:"run_id"`
	Checked int    `json:"checked"`
	Total   int    `json:"total"`
}

// CheckedEvent is emitted once per completed URL fetch.
type CheckedEvent struct {
	RunID       string   `json:"run_id"`
	URL         string   `json:"url"`
	Status      int      `json:"status"`
	Inbound     bool     `json:"inbound"`
	SourcePages []string `json:"source_pages,omitempty"`
}

// SummaryEvent carries the final report, emitted exactly once per run.
type SummaryEvent struct {
	RunID  string `json:"run_id"`
	Report Report `json:"report"`
}
