package telemetry

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLatencyToBucket(t *testing.T) {
	tests := []struct {
		latency time.Duration
		want    LatencyBucket
	}{
		{50 * time.Millisecond, BucketP100},
		{200 * time.Millisecond, BucketP500},
		{700 * time.Millisecond, BucketP1000},
		{3 * time.Second, BucketP5000},
		{10 * time.Second, BucketP5000P},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LatencyToBucket(tt.latency), "latency %v", tt.latency)
	}
}

func TestMetrics_RecordSearch(t *testing.T) {
	m := NewMetrics()

	m.RecordSearch(SearchEvent{Query: "legal risks", ResultCount: 5, Latency: 20 * time.Millisecond})
	m.RecordSearch(SearchEvent{Query: "nothing found here", ResultCount: 0, Latency: 2 * time.Second})

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.TotalSearches)
	assert.Equal(t, int64(1), snap.ZeroResultCount)
	assert.Equal(t, []string{"nothing found here"}, snap.ZeroResultQueries)
	assert.Equal(t, int64(1), snap.LatencyDistribution[BucketP100])
	assert.Equal(t, int64(1), snap.LatencyDistribution[BucketP5000])
	assert.InDelta(t, 50.0, snap.ZeroResultPercentage(), 1e-9)
}

func TestMetrics_TopTerms(t *testing.T) {
	m := NewMetrics()

	m.RecordSearch(SearchEvent{Query: "contract liability", ResultCount: 1})
	m.RecordSearch(SearchEvent{Query: "contract breach", ResultCount: 1})
	m.RecordSearch(SearchEvent{Query: "of it", ResultCount: 1}) // all terms too short

	snap := m.Snapshot()
	assert.Equal(t, TermCount{Term: "contract", Count: 2}, snap.TopTerms[0])
}

func TestMetrics_OracleFallbackRate(t *testing.T) {
	m := NewMetrics()

	m.RecordOracleCall(false)
	m.RecordOracleCall(false)
	m.RecordOracleCall(true)
	m.RecordOracleCall(false)

	snap := m.Snapshot()
	assert.Equal(t, int64(4), snap.OracleCalls)
	assert.Equal(t, int64(1), snap.OracleFallbacks)
	assert.InDelta(t, 0.25, snap.OracleFallbackRate(), 1e-9)
}

func TestCircularBuffer_EvictsOldest(t *testing.T) {
	b := NewCircularBuffer[int](3)

	for i := 1; i <= 5; i++ {
		b.Add(i)
	}

	assert.Equal(t, 3, b.Size())
	assert.Equal(t, []int{3, 4, 5}, b.Items())
}

func TestCircularBuffer_Empty(t *testing.T) {
	b := NewCircularBuffer[string](4)
	assert.Empty(t, b.Items())
	assert.Zero(t, b.Size())
}

func TestMetrics_ConcurrentAccess(t *testing.T) {
	m := NewMetrics()
	done := make(chan struct{})

	for g := 0; g < 4; g++ {
		go func(g int) {
			defer func() { done <- struct{}{} }()
			for i := 0; i < 100; i++ {
				m.RecordSearch(SearchEvent{Query: fmt.Sprintf("query %d", g), ResultCount: i % 2})
				m.RecordOracleCall(i%10 == 0)
			}
		}(g)
	}
	for g := 0; g < 4; g++ {
		<-done
	}

	snap := m.Snapshot()
	assert.Equal(t, int64(400), snap.TotalSearches)
	assert.Equal(t, int64(400), snap.OracleCalls)
}
