package matcher

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/chrisdamba/foodmatch/internal/logger"
	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/chrisdamba/foodmatch/internal/scheduler"
)

var start = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type message struct {
	topic string
	data  []byte
}

type recordingPublisher struct {
	messages []message
}

func (r *recordingPublisher) WriteMessage(topic string, msg []byte) error {
	r.messages = append(r.messages, message{topic: topic, data: msg})
	return nil
}

func (r *recordingPublisher) byTopic(topic string) [][]byte {
	var out [][]byte
	for _, m := range r.messages {
		if m.topic == topic {
			out = append(out, m.data)
		}
	}
	return out
}

type harness struct {
	loop    *scheduler.Loop
	manager *OrderManager
	pub     *recordingPublisher
	pickups []Pickup
}

func newHarness(matched bool) *harness {
	h := &harness{pub: &recordingPublisher{}}
	h.loop = scheduler.NewLoop(scheduler.NewVirtualClock(start), logger.Discard())
	h.manager = NewOrderManager(h.loop, matched,
		WithPublisher(h.pub),
		WithLogger(logger.Discard()),
		WithRunID("run-1"),
	)
	h.manager.OnPickup(func(p Pickup) { h.pickups = append(h.pickups, p) })
	return h
}

// submit receives an order and dispatches its driver at the current time.
func (h *harness) submit(id string, fulfil float64, driverID int, delay float64) (*models.Order, *models.Driver) {
	now := h.loop.Now()
	order := models.NewOrder(models.OrderRecord{ID: id, Name: "Ramen", FulfilTime: fulfil}, now)
	driver := models.NewDriver(driverID, now, delay)
	models.AssignDriver(order, driver)
	h.manager.OrderReceived(order)
	h.manager.DispatchDriver(driver)
	return order, driver
}

func (h *harness) run(t *testing.T) {
	t.Helper()
	if err := h.loop.Run(context.Background()); err != nil {
		t.Fatalf("loop failed: %v", err)
	}
}

func TestMatched_DriverWaitsForSlowOrder(t *testing.T) {
	h := newHarness(true)
	order, driver := h.submit("o1", 10, 1, 5)

	var midOrders, midDrivers int
	h.loop.Handle("probe", func(*models.Event) { midOrders, midDrivers = h.manager.Pending() })
	h.loop.Schedule(7*time.Second, "probe", nil)

	h.run(t)

	if midOrders != 0 || midDrivers != 1 {
		t.Errorf("at +7s expected driver waiting, got orders=%d drivers=%d", midOrders, midDrivers)
	}
	if len(h.pickups) != 1 {
		t.Fatalf("expected 1 pickup, got %d", len(h.pickups))
	}
	p := h.pickups[0]
	if p.Order != order || p.Driver != driver || p.Mode != models.MatchModeMatched {
		t.Fatalf("unexpected pickup %+v", p)
	}
	if !p.Time.Equal(start.Add(10 * time.Second)) {
		t.Errorf("expected pickup at +10s, got %s", p.Time.Sub(start))
	}
	if order.WaitTime() != 0 {
		t.Errorf("expected order wait 0, got %s", order.WaitTime())
	}
	if driver.WaitTime() != 5*time.Second {
		t.Errorf("expected driver wait 5s, got %s", driver.WaitTime())
	}

	stats := h.manager.Stats()
	if stats.OrdersReceived != 1 || stats.OrdersDelivered != 1 {
		t.Fatalf("unexpected counters %+v", stats)
	}
	if stats.AvgDriverWaitMs != 5000 || stats.AvgOrderWaitMs != 0 {
		t.Errorf("unexpected wait averages %+v", stats)
	}
	if stats.AvgOrderPrepMs != 10000 || stats.AvgDriverDelayMs != 5000 {
		t.Errorf("unexpected prep/delay averages %+v", stats)
	}
}

func TestUnmatched_FirstArrivedDriverTakesFirstPreparedOrder(t *testing.T) {
	h := newHarness(false)
	o1, d1 := h.submit("o1", 5, 1, 0)
	o2, d2 := h.submit("o2", 1, 2, 0)

	h.run(t)

	if len(h.pickups) != 2 {
		t.Fatalf("expected 2 pickups, got %d", len(h.pickups))
	}
	first, second := h.pickups[0], h.pickups[1]
	if first.Order != o2 || first.Driver != d1 {
		t.Errorf("expected o2 with d1 first, got %s with %d", first.Order.ID, first.Driver.ID)
	}
	if second.Order != o1 || second.Driver != d2 {
		t.Errorf("expected o1 with d2 second, got %s with %d", second.Order.ID, second.Driver.ID)
	}
	if d1.WaitTime() != time.Second || d2.WaitTime() != 5*time.Second {
		t.Errorf("unexpected driver waits %s, %s", d1.WaitTime(), d2.WaitTime())
	}

	stats := h.manager.Stats()
	if stats.AvgDriverWaitMs != 3000 || stats.AvgOrderWaitMs != 0 || stats.AvgOrderPrepMs != 3000 {
		t.Errorf("unexpected averages %+v", stats)
	}

	var pickup models.OrderPickupEvent
	if err := json.Unmarshal(h.pub.byTopic(models.TopicOrderPickup)[0], &pickup); err != nil {
		t.Fatal(err)
	}
	if pickup.OrderID != "o2" || pickup.DriverID != 1 || pickup.AssignedDriverID != 2 || pickup.AssignedOrderID != "o1" {
		t.Errorf("pickup event should carry pair and nominal assignment, got %+v", pickup)
	}
}

func TestSummaryPublishedOnceWhenAllDelivered(t *testing.T) {
	h := newHarness(false)
	h.submit("o1", 2, 1, 3)
	h.submit("o2", 4, 2, 1)
	h.run(t)

	summaries := h.pub.byTopic(models.TopicSimulationSummary)
	if len(summaries) != 1 {
		t.Fatalf("expected 1 summary, got %d", len(summaries))
	}
	var summary models.SimulationSummaryEvent
	if err := json.Unmarshal(summaries[0], &summary); err != nil {
		t.Fatal(err)
	}
	if summary.OrdersReceived != 2 || summary.OrdersDelivered != 2 || summary.RunID != "run-1" {
		t.Errorf("unexpected summary %+v", summary)
	}
	if summary.MatchMode != models.MatchModeUnmatched {
		t.Errorf("unexpected match mode %q", summary.MatchMode)
	}

	for _, topic := range models.Topics {
		if len(h.pub.byTopic(topic)) == 0 {
			t.Errorf("nothing published on %s", topic)
		}
	}
	if got := len(h.pub.byTopic(models.TopicOrderPickup)); got != 2 {
		t.Errorf("expected 2 pickup events, got %d", got)
	}
}

func TestNoSummaryWithoutOrders(t *testing.T) {
	h := newHarness(true)
	h.run(t)

	if len(h.pub.messages) != 0 {
		t.Fatalf("expected no events, got %d", len(h.pub.messages))
	}
	if h.manager.Stats().Complete() {
		t.Fatal("empty run must not be complete")
	}
}

func TestMode(t *testing.T) {
	if m := newHarness(true).manager.Mode(); m != models.MatchModeMatched {
		t.Errorf("got %s", m)
	}
	if m := newHarness(false).manager.Mode(); m != models.MatchModeUnmatched {
		t.Errorf("got %s", m)
	}
}

func TestRandomWorkloadInvariants(t *testing.T) {
	for _, matched := range []bool{true, false} {
		mode := models.MatchModeUnmatched
		if matched {
			mode = models.MatchModeMatched
		}
		t.Run(mode, func(t *testing.T) {
			h := newHarness(matched)
			rng := rand.New(rand.NewSource(7))
			const total = 200

			received := 0
			h.loop.Handle(models.EventReceiveOrder, func(*models.Event) {
				received++
				h.submit(
					fmt.Sprintf("order-%d", received),
					float64(rng.Intn(20)),
					received,
					3+rng.Float64()*12,
				)
				if received < total {
					h.loop.Schedule(500*time.Millisecond, models.EventReceiveOrder, nil)
				}
			})
			h.loop.Schedule(500*time.Millisecond, models.EventReceiveOrder, nil)

			delivered := 0
			h.manager.OnPickup(func(Pickup) {
				delivered++
				if s := h.manager.Stats(); s.OrdersDelivered > s.OrdersReceived {
					t.Fatalf("delivered %d exceeds received %d", s.OrdersDelivered, s.OrdersReceived)
				}
			})

			h.run(t)

			stats := h.manager.Stats()
			if stats.OrdersReceived != total || stats.OrdersDelivered != total || delivered != total {
				t.Fatalf("expected %d delivered, got %+v", total, stats)
			}
			if orders, drivers := h.manager.Pending(); orders != 0 || drivers != 0 {
				t.Fatalf("leftover orders=%d drivers=%d", orders, drivers)
			}

			var orderWait, driverWait float64
			var lastArrive, lastPrepared time.Time
			for _, p := range h.pickups {
				if p.Order.WaitTime() < 0 || p.Driver.WaitTime() < 0 {
					t.Fatalf("negative wait for %s", p.Order.ID)
				}
				if !p.Order.PickupTime.Equal(p.Driver.PickupTime) {
					t.Fatalf("pickup times differ for %s", p.Order.ID)
				}
				if matched && (p.Order.DriverID != p.Driver.ID || p.Driver.OrderID != p.Order.ID) {
					t.Fatalf("order %s paired with foreign driver %d", p.Order.ID, p.Driver.ID)
				}
				if !matched {
					if p.Driver.ArriveTime.Before(lastArrive) || p.Order.FulfilledTime.Before(lastPrepared) {
						t.Fatalf("pairing out of FIFO order at %s", p.Order.ID)
					}
					lastArrive, lastPrepared = p.Driver.ArriveTime, p.Order.FulfilledTime
				}
				orderWait += millis(p.Order.WaitTime())
				driverWait += millis(p.Driver.WaitTime())
			}
			if mean := orderWait / total; math.Abs(mean-stats.AvgOrderWaitMs) > 1e-6 {
				t.Errorf("avg order wait %f, mean %f", stats.AvgOrderWaitMs, mean)
			}
			if mean := driverWait / total; math.Abs(mean-stats.AvgDriverWaitMs) > 1e-6 {
				t.Errorf("avg driver wait %f, mean %f", stats.AvgDriverWaitMs, mean)
			}
			if got := len(h.pub.byTopic(models.TopicSimulationSummary)); got != 1 {
				t.Errorf("expected one summary, got %d", got)
			}
		})
	}
}
