package analytics

import "time"

// QueryEvent describes one answered search request.
type QueryEvent struct {
	Query      string    `json:"query"`
	Mode       string    `json:"mode"`
	Strategy   string    `json:"strategy"`
	Generation string    `json:"generation"`
	TotalHits  int       `json:"total_hits"`
	Returned   int       `json:"returned"`
	LatencyUs  int64     `json:"latency_us"`
	CacheHit   bool      `json:"cache_hit"`
	Timestamp  time.Time `json:"timestamp"`
	RequestID  string    `json:"request_id,omitempty"`
}
