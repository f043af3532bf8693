package models

import "time"

// SystemMetrics is a point-in-time snapshot of the service's own operational
// counters, served alongside the raw Prometheus exposition for lightweight
// dashboard consumption.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	DBQueryCount             uint64    `json:"db_query_count"`
	AverageDBQueryDurationMs float64   `json:"average_db_query_duration_ms"`
	SolvesAttempted          uint64    `json:"solves_attempted"`
	SolvesSucceeded          uint64    `json:"solves_succeeded"`
	SolvesInfeasible         uint64    `json:"solves_infeasible"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
