// Package telemetry collects in-process search metrics. All data stays
// local; nothing is reported externally.
package telemetry

import (
	"sort"
	"strings"
	"sync"
	"time"
)

// LatencyBucket is a latency histogram bucket.
type LatencyBucket string

const (
	BucketP100   LatencyBucket = "p100"   // <100ms
	BucketP500   LatencyBucket = "p500"   // 100-500ms
	BucketP1000  LatencyBucket = "p1000"  // 500ms-1s
	BucketP5000  LatencyBucket = "p5000"  // 1-5s
	BucketP5000P LatencyBucket = "p5000+" // >=5s
)

// LatencyToBucket converts a duration to its histogram bucket. Buckets are
// coarse because every search includes oracle round trips.
func LatencyToBucket(d time.Duration) LatencyBucket {
	ms := d.Milliseconds()
	switch {
	case ms < 100:
		return BucketP100
	case ms < 500:
		return BucketP500
	case ms < 1000:
		return BucketP1000
	case ms < 5000:
		return BucketP5000
	default:
		return BucketP5000P
	}
}

// SearchEvent records one completed search.
type SearchEvent struct {
	Query       string
	ResultCount int
	Latency     time.Duration
	Timestamp   time.Time
}

// CircularBuffer is a fixed-capacity FIFO buffer.
type CircularBuffer[T any] struct {
	items    []T
	head     int
	size     int
	capacity int
	mu       sync.RWMutex
}

// NewCircularBuffer creates a circular buffer with the given capacity.
func NewCircularBuffer[T any](capacity int) *CircularBuffer[T] {
	if capacity <= 0 {
		capacity = 100
	}
	return &CircularBuffer[T]{
		items:    make([]T, capacity),
		capacity: capacity,
	}
}

// Add appends an item, evicting the oldest when full.
func (b *CircularBuffer[T]) Add(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.items[b.head] = item
	b.head = (b.head + 1) % b.capacity
	if b.size < b.capacity {
		b.size++
	}
}

// Items returns all items in FIFO order, oldest first.
func (b *CircularBuffer[T]) Items() []T {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.size == 0 {
		return []T{}
	}

	result := make([]T, b.size)
	if b.size < b.capacity {
		copy(result, b.items[:b.size])
	} else {
		copy(result, b.items[b.head:])
		copy(result[b.capacity-b.head:], b.items[:b.head])
	}
	return result
}

// Size returns the number of buffered items.
func (b *CircularBuffer[T]) Size() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.size
}

// TermCount is a query term and its frequency.
type TermCount struct {
	Term  string `json:"term"`
	Count int64  `json:"count"`
}

// Snapshot is an immutable view of collected metrics.
type Snapshot struct {
	TotalSearches       int64                   `json:"total_searches"`
	ZeroResultCount     int64                   `json:"zero_result_count"`
	ZeroResultQueries   []string                `json:"zero_result_queries"`
	LatencyDistribution map[LatencyBucket]int64 `json:"latency_distribution"`
	TopTerms            []TermCount             `json:"top_terms"`
	OracleCalls         int64                   `json:"oracle_calls"`
	OracleFallbacks     int64                   `json:"oracle_fallbacks"`
	Since               time.Time               `json:"since"`
}

// ZeroResultPercentage returns the share of searches with no results.
func (s *Snapshot) ZeroResultPercentage() float64 {
	if s.TotalSearches == 0 {
		return 0
	}
	return float64(s.ZeroResultCount) / float64(s.TotalSearches) * 100
}

// OracleFallbackRate returns the share of oracle calls that degraded to the
// neutral score.
func (s *Snapshot) OracleFallbackRate() float64 {
	if s.OracleCalls == 0 {
		return 0
	}
	return float64(s.OracleFallbacks) / float64(s.OracleCalls)
}

// Metrics collects search telemetry. Safe for concurrent use.
type Metrics struct {
	mu sync.RWMutex

	totalSearches   int64
	zeroResults     int64
	zeroResultBuf   *CircularBuffer[string]
	latency         map[LatencyBucket]int64
	termCounts      map[string]int64
	oracleCalls     int64
	oracleFallbacks int64
	since           time.Time
}

// NewMetrics creates an empty metrics collector.
func NewMetrics() *Metrics {
	return &Metrics{
		zeroResultBuf: NewCircularBuffer[string](100),
		latency:       make(map[LatencyBucket]int64),
		termCounts:    make(map[string]int64),
		since:         time.Now(),
	}
}

// RecordSearch records one completed search.
func (m *Metrics) RecordSearch(event SearchEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.totalSearches++
	m.latency[LatencyToBucket(event.Latency)]++
	for _, term := range extractTerms(event.Query) {
		m.termCounts[term]++
	}

	if event.ResultCount == 0 {
		m.zeroResults++
		m.zeroResultBuf.Add(event.Query)
	}
}

// RecordOracleCall records one oracle invocation; fallback marks calls that
// degraded to the neutral score.
func (m *Metrics) RecordOracleCall(fallback bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.oracleCalls++
	if fallback {
		m.oracleFallbacks++
	}
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	latency := make(map[LatencyBucket]int64, len(m.latency))
	for k, v := range m.latency {
		latency[k] = v
	}

	return Snapshot{
		TotalSearches:       m.totalSearches,
		ZeroResultCount:     m.zeroResults,
		ZeroResultQueries:   m.zeroResultBuf.Items(),
		LatencyDistribution: latency,
		TopTerms:            topTerms(m.termCounts, 10),
		OracleCalls:         m.oracleCalls,
		OracleFallbacks:     m.oracleFallbacks,
		Since:               m.since,
	}
}

// extractTerms lowercases a query and keeps terms of length >= 3.
func extractTerms(query string) []string {
	var terms []string
	for _, w := range strings.Fields(strings.ToLower(query)) {
		if len(w) >= 3 {
			terms = append(terms, w)
		}
	}
	return terms
}

func topTerms(counts map[string]int64, limit int) []TermCount {
	terms := make([]TermCount, 0, len(counts))
	for term, count := range counts {
		terms = append(terms, TermCount{Term: term, Count: count})
	}

	// Count descending, ties alphabetical for stable output.
	sort.Slice(terms, func(i, j int) bool {
		if terms[i].Count != terms[j].Count {
			return terms[i].Count > terms[j].Count
		}
		return terms[i].Term < terms[j].Term
	})

	if len(terms) > limit {
		terms = terms[:limit]
	}
	return terms
}
