package analytics

import (
	"slices"
	"sort"
	"sync"
	"time"
)

const (
	latencyWindow = 10000
	topQueries    = 10
)

type AggregatedStats struct {
	TotalSearches     int64            `json:"total_searches"`
	CacheHits         int64            `json:"cache_hits"`
	CacheMisses       int64            `json:"cache_misses"`
	ZeroResultCount   int64            `json:"zero_result_count"`
	ByMode            map[string]int64 `json:"by_mode"`
	ByStrategy        map[string]int64 `json:"by_strategy"`
	AvgLatencyUs      float64          `json:"avg_latency_us"`
	P50LatencyUs      int64            `json:"p50_latency_us"`
	P95LatencyUs      int64            `json:"p95_latency_us"`
	P99LatencyUs      int64            `json:"p99_latency_us"`
	TopQueries        []QueryCount     `json:"top_queries"`
	ZeroResultQueries []QueryCount     `json:"zero_result_queries"`
	QueriesPerMinute  float64          `json:"queries_per_minute"`
}

type QueryCount struct {
	Query string `json:"query"`
	Count int64  `json:"count"`
}

// Aggregator keeps running search statistics in memory. Latency
// percentiles cover the most recent latencyWindow searches.
type Aggregator struct {
	mu                sync.Mutex
	totalSearches     int64
	cacheHits         int64
	zeroResults       int64
	byMode            map[string]int64
	byStrategy        map[string]int64
	latencies         []int64
	next              int
	queryCounts       map[string]int64
	zeroResultQueries map[string]int64
	startTime         time.Time
}

func NewAggregator() *Aggregator {
	return &Aggregator{
		byMode:            make(map[string]int64),
		byStrategy:        make(map[string]int64),
		latencies:         make([]int64, 0, latencyWindow),
		queryCounts:       make(map[string]int64),
		zeroResultQueries: make(map[string]int64),
		startTime:         time.Now(),
	}
}

func (a *Aggregator) Record(event QueryEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.totalSearches++
	if event.CacheHit {
		a.cacheHits++
	}
	a.byMode[event.Mode]++
	a.byStrategy[event.Strategy]++

	key := event.Mode + ":" + event.Query
	a.queryCounts[key]++
	if event.TotalHits == 0 {
		a.zeroResults++
		a.zeroResultQueries[key]++
	}

	if len(a.latencies) < latencyWindow {
		a.latencies = append(a.latencies, event.LatencyUs)
	} else {
		a.latencies[a.next] = event.LatencyUs
		a.next = (a.next + 1) % latencyWindow
	}
}

func (a *Aggregator) Stats() AggregatedStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := AggregatedStats{
		TotalSearches:     a.totalSearches,
		CacheHits:         a.cacheHits,
		CacheMisses:       a.totalSearches - a.cacheHits,
		ZeroResultCount:   a.zeroResults,
		ByMode:            cloneCounts(a.byMode),
		ByStrategy:        cloneCounts(a.byStrategy),
		TopQueries:        topN(a.queryCounts, topQueries),
		ZeroResultQueries: topN(a.zeroResultQueries, topQueries),
	}
	if len(a.latencies) > 0 {
		sorted := slices.Clone(a.latencies)
		slices.Sort(sorted)
		var sum int64
		for _, l := range sorted {
			sum += l
		}
		stats.AvgLatencyUs = float64(sum) / float64(len(sorted))
		stats.P50LatencyUs = percentile(sorted, 50)
		stats.P95LatencyUs = percentile(sorted, 95)
		stats.P99LatencyUs = percentile(sorted, 99)
	}
	if elapsed := time.Since(a.startTime).Minutes(); elapsed > 0 {
		stats.QueriesPerMinute = float64(stats.TotalSearches) / elapsed
	}
	return stats
}

func cloneCounts(m map[string]int64) map[string]int64 {
	out := make(map[string]int64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func percentile(sorted []int64, pct int) int64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (pct * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// topN orders by count descending, then query ascending for stable output.
func topN(counts map[string]int64, n int) []QueryCount {
	result := make([]QueryCount, 0, len(counts))
	for query, count := range counts {
		result = append(result, QueryCount{Query: query, Count: count})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Count != result[j].Count {
			return result[i].Count > result[j].Count
		}
		return result[i].Query < result[j].Query
	})
	if len(result) > n {
		result = result[:n]
	}
	return result
}
