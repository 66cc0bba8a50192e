// Package analytics records what the engine is asked and how it answers,
// and ships those events to Kafka in the background.
package analytics

import "time"

type EventType string

const (
	EventSearch     EventType = "search"
	EventZeroResult EventType = "zero_result"
	EventIndexDoc   EventType = "index_document"
	EventIndexFail  EventType = "index_failed"
)

type SearchEvent struct {
	Type      EventType `json:"type"`
	QueryID   string    `json:"query_id"`
	Query     string    `json:"query"`
	Terms     []string  `json:"terms"`
	Results   int       `json:"results"`
	LatencyMs int64     `json:"latency_ms"`
	CacheHit  bool      `json:"cache_hit"`
	Timestamp time.Time `json:"timestamp"`
}

type IndexEvent struct {
	Type      EventType `json:"type"`
	DocID     int       `json:"doc_id"`
	Document  string    `json:"document"`
	Error     string    `json:"error,omitempty"`
	LatencyMs int64     `json:"latency_ms"`
	Timestamp time.Time `json:"timestamp"`
}

// key picks the partition key for an event.
func key(event any) string {
	switch e := event.(type) {
	case SearchEvent:
		return string(e.Type)
	case IndexEvent:
		return e.Document
	default:
		return "analytics"
	}
}
