// Command loadtest drives a running search host with a fixed mix of word,
// phrase, prefix, boolean and autocomplete requests and reports latency
// percentiles per request kind.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// target is one request template of the workload.
type target struct {
	kind  string
	path  string
	query url.Values
}

// workload matches the demo corpus; every target has at least one hit there.
func workload(strategies []string) []target {
	var targets []target
	for _, s := range strategies {
		targets = append(targets,
			target{"word", "/api/v1/search", url.Values{"q": {"pie"}, "mode": {"word"}, "strategy": {s}}},
			target{"phrase", "/api/v1/search", url.Values{"q": {"banana apple"}, "mode": {"phrase"}, "strategy": {s}}},
			target{"prefix", "/api/v1/search", url.Values{"q": {"ba"}, "mode": {"prefix"}, "strategy": {s}}},
		)
	}
	targets = append(targets,
		target{"boolean", "/api/v1/search", url.Values{"q": {"(apple OR lemon) AND pie"}, "mode": {"boolean"}}},
		target{"autocomplete", "/api/v1/autocomplete", url.Values{"prefix": {"c"}, "limit": {"5"}}},
	)
	return targets
}

type kindStats struct {
	mu        sync.Mutex
	latencies []time.Duration
	errors    int64
}

type Stats struct {
	total atomic.Int64
	mu    sync.Mutex
	kinds map[string]*kindStats
}

func NewStats() *Stats {
	return &Stats{kinds: make(map[string]*kindStats)}
}

func (s *Stats) kind(name string) *kindStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.kinds[name]
	if !ok {
		k = &kindStats{}
		s.kinds[name] = k
	}
	return k
}

func (s *Stats) Record(kind string, d time.Duration, status int, err error) {
	s.total.Add(1)
	k := s.kind(kind)
	k.mu.Lock()
	defer k.mu.Unlock()
	if err != nil || status >= 400 {
		k.errors++
	}
	if err != nil {
		return
	}
	k.latencies = append(k.latencies, d)
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "base URL of the search host")
	concurrency := flag.Int("concurrency", 10, "number of concurrent workers")
	duration := flag.Duration("duration", 30*time.Second, "test duration")
	flag.Parse()

	targets := workload([]string{"inverted", "trie", "naive"})
	fmt.Println("=== Search Load Test ===")
	fmt.Printf("Target:      %s\n", *baseURL)
	fmt.Printf("Concurrency: %d\n", *concurrency)
	fmt.Printf("Duration:    %s\n", *duration)
	fmt.Printf("Targets:     %d\n\n", len(targets))

	stats, err := run(*baseURL, *concurrency, *duration, targets)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load test aborted: %v\n", err)
		os.Exit(1)
	}
	if !report(stats, *duration) {
		os.Exit(1)
	}
}

func run(baseURL string, concurrency int, duration time.Duration, targets []target) (*Stats, error) {
	stats := NewStats()
	client := &http.Client{
		Timeout: 10 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        concurrency * 2,
			MaxIdleConnsPerHost: concurrency * 2,
			IdleConnTimeout:     90 * time.Second,
		},
	}

	ctx, cancel := context.WithTimeout(context.Background(), duration)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < concurrency; w++ {
		g.Go(func() error {
			for i := w; ctx.Err() == nil; i++ {
				p := targets[i%len(targets)]
				req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL+p.path+"?"+p.query.Encode(), nil)
				if err != nil {
					return fmt.Errorf("building %s request: %w", p.kind, err)
				}
				start := time.Now()
				resp, err := client.Do(req)
				elapsed := time.Since(start)
				if err != nil {
					if ctx.Err() == nil {
						stats.Record(p.kind, elapsed, 0, err)
					}
					continue
				}
				io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
				stats.Record(p.kind, elapsed, resp.StatusCode, nil)
			}
			return nil
		})
	}
	return stats, g.Wait()
}

// report prints the summary and reports whether any request completed.
func report(stats *Stats, duration time.Duration) bool {
	total := stats.total.Load()
	fmt.Println("=== Results ===")
	fmt.Printf("Total Requests: %d\n", total)
	if total == 0 {
		fmt.Println("WARNING: No requests completed. Is the service running?")
		return false
	}
	fmt.Printf("Requests/sec:   %.2f\n\n", float64(total)/duration.Seconds())

	stats.mu.Lock()
	names := make([]string, 0, len(stats.kinds))
	for name := range stats.kinds {
		names = append(names, name)
	}
	stats.mu.Unlock()
	slices.Sort(names)

	fmt.Printf("%-13s %8s %7s %10s %10s %10s %10s\n", "kind", "count", "errors", "p50", "p90", "p99", "max")
	for _, name := range names {
		k := stats.kind(name)
		k.mu.Lock()
		latencies := slices.Clone(k.latencies)
		errs := k.errors
		k.mu.Unlock()
		slices.Sort(latencies)
		var maxLatency time.Duration
		if len(latencies) > 0 {
			maxLatency = latencies[len(latencies)-1]
		}
		fmt.Printf("%-13s %8d %7d %10s %10s %10s %10s\n", name, len(latencies), errs,
			percentile(latencies, 50), percentile(latencies, 90), percentile(latencies, 99), maxLatency)
	}
	return true
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}
	idx := int(math.Ceil(p/100*float64(len(sorted)))) - 1
	return sorted[min(max(idx, 0), len(sorted)-1)]
}
