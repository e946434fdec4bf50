package matcher

import (
	"math"
	"testing"
)

func TestRunningAvgMatchesMean(t *testing.T) {
	avg, sum := 0.0, 0.0
	for i := 1; i < 10; i++ {
		sample := float64(i * 10)
		sum += sample
		avg = RunningAvg(avg, i, sample)
		if mean := sum / float64(i); math.Abs(avg-mean) > 1e-9 {
			t.Fatalf("after %d samples: running %f, mean %f", i, avg, mean)
		}
	}
}

func TestRunningAvgFirstSample(t *testing.T) {
	if got := RunningAvg(0, 1, 1234.5); got != 1234.5 {
		t.Fatalf("first sample should become the average, got %f", got)
	}
}

func TestStatsComplete(t *testing.T) {
	tests := []struct {
		name  string
		stats Stats
		want  bool
	}{
		{"nothing received", Stats{}, false},
		{"in flight", Stats{OrdersReceived: 3, OrdersDelivered: 2}, false},
		{"all delivered", Stats{OrdersReceived: 3, OrdersDelivered: 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.stats.Complete(); got != tt.want {
				t.Errorf("Complete() = %v, want %v", got, tt.want)
			}
		})
	}
}
