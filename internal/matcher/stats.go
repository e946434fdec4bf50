package matcher

import (
	"math"
	"time"

	"github.com/chrisdamba/foodmatch/internal/models"
)

// Stats holds delivery counters and running averages in milliseconds.
type Stats struct {
	OrdersReceived   int
	OrdersDelivered  int
	AvgOrderWaitMs   float64
	AvgDriverWaitMs  float64
	AvgOrderPrepMs   float64
	AvgDriverDelayMs float64
}

// RunningAvg folds sample into avg, where n is the sample count including
// sample. Applied over a sequence it yields the arithmetic mean.
func RunningAvg(avg float64, n int, sample float64) float64 {
	return avg + (sample-avg)/float64(n)
}

func (s *Stats) record(order *models.Order, driver *models.Driver) {
	s.OrdersDelivered++
	n := s.OrdersDelivered
	s.AvgDriverWaitMs = RunningAvg(s.AvgDriverWaitMs, n, millis(driver.WaitTime()))
	s.AvgOrderWaitMs = RunningAvg(s.AvgOrderWaitMs, n, millis(order.WaitTime()))
	s.AvgOrderPrepMs = RunningAvg(s.AvgOrderPrepMs, n, 1000*order.FulfilTime)
	s.AvgDriverDelayMs = RunningAvg(s.AvgDriverDelayMs, n, 1000*driver.PickupDelay)
}

// Complete reports whether every received order has been delivered.
func (s Stats) Complete() bool {
	return s.OrdersReceived > 0 && s.OrdersReceived == s.OrdersDelivered
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func truncMs(v float64) int64 {
	return int64(math.Trunc(v))
}
