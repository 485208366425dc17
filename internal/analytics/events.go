package analytics

// RequestEvent is one search request recorded by the RequestQueue.
type RequestEvent struct {
	Tick      uint64 `json:"tick"`
	Query     string `json:"query"`
	Results   int    `json:"results"`
	RequestID string `json:"request_id,omitempty"`
}

// QueryCount pairs a raw query with how often it was seen.
type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Stats summarises the requests currently inside the window.
type Stats struct {
	Requests          int          `json:"requests"`
	NoResultRequests  int          `json:"no_result_requests"`
	TotalRequests     uint64       `json:"total_requests"`
	TopQueries        []QueryCount `json:"top_queries"`
	ZeroResultQueries []QueryCount `json:"zero_result_queries"`
}
