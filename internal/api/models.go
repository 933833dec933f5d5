package api

// SearchResult is the body returned by POST /search.
type SearchResult struct {
	Found          bool     `json:"found"`
	Error          string   `json:"error,omitempty"`
	Message        string   `json:"message,omitempty"` // server-composed summary, informational only
	PartialMatches []string `json:"partial_matches,omitempty"`
}

// HealthData is the body returned by GET /health.
type HealthData struct {
	Status       string   `json:"status"` // "healthy" or "error"
	DomainsCount int      `json:"domains_count,omitempty"`
	Logs         []string `json:"logs,omitempty"`
	Message      string   `json:"message,omitempty"`
}

// Healthy reports whether the service declared itself healthy.
func (h *HealthData) Healthy() bool {
	return h != nil && h.Status == "healthy"
}

// StatsData is the body returned by GET /stats.
type StatsData struct {
	TotalDomains  int    `json:"total_domains"`
	TotalSearches int    `json:"total_searches"`
	Hits          int    `json:"hits"`
	Misses        int    `json:"misses"`
	HitRatio      string `json:"hit_ratio"` // preformatted percentage, e.g. "12.50%"
	Error         string `json:"error,omitempty"`
}
