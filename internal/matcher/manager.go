// Package matcher pairs prepared orders with arrived drivers and keeps
// running delivery statistics.
package matcher

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/chrisdamba/foodmatch/internal/scheduler"
)

// Publisher receives serialized lifecycle events.
type Publisher interface {
	WriteMessage(topic string, msg []byte) error
}

// Pickup describes one order handed to a driver.
type Pickup struct {
	Order  *models.Order
	Driver *models.Driver
	Mode   string
	Time   time.Time
}

// OrderManager is driven entirely by events fired from a scheduler. It
// expects those events to be delivered one at a time and does no locking.
type OrderManager struct {
	sched     scheduler.Scheduler
	policy    policy
	stats     Stats
	publisher Publisher
	runID     string
	logger    *slog.Logger
	observers []func(Pickup)
}

type Option func(*OrderManager)

func WithPublisher(p Publisher) Option {
	return func(m *OrderManager) { m.publisher = p }
}

func WithLogger(l *slog.Logger) Option {
	return func(m *OrderManager) { m.logger = l }
}

// WithRunID stamps every published event with id.
func WithRunID(id string) Option {
	return func(m *OrderManager) { m.runID = id }
}

// NewOrderManager registers the prepared and arrived handlers on sched.
// matchOrderWithDriver selects matched mode; otherwise pairing is FIFO.
func NewOrderManager(sched scheduler.Scheduler, matchOrderWithDriver bool, opts ...Option) *OrderManager {
	m := &OrderManager{
		sched:  sched,
		policy: newPolicy(matchOrderWithDriver),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	sched.Handle(models.EventOrderPrepared, func(event *models.Event) {
		m.orderPrepared(event.Data.(*models.Order))
	})
	sched.Handle(models.EventDriverArrived, func(event *models.Event) {
		m.driverArrived(event.Data.(*models.Driver))
	})
	return m
}

func (m *OrderManager) Mode() string {
	return m.policy.mode()
}

// OnPickup registers fn to be called after every pickup.
func (m *OrderManager) OnPickup(fn func(Pickup)) {
	m.observers = append(m.observers, fn)
}

func (m *OrderManager) Stats() Stats {
	return m.stats
}

// Pending returns how many prepared orders and arrived drivers are waiting
// for a partner.
func (m *OrderManager) Pending() (orders, drivers int) {
	return m.policy.pending()
}

// OrderReceived counts the order and schedules its prepared event after
// order.FulfilTime seconds.
func (m *OrderManager) OrderReceived(order *models.Order) {
	m.logger.Info("orderReceived",
		"order_id", order.ID, "name", order.Name, "fulfil_time", order.FulfilTime, "driver_id", order.DriverID)
	m.stats.OrdersReceived++

	m.sched.Schedule(order.PrepDuration(), models.EventOrderPrepared, order)

	m.publish(models.TopicOrderReceived, models.OrderReceivedEvent{
		Timestamp:    m.sched.Now().UnixMilli(),
		EventType:    models.EventReceiveOrder,
		RunID:        m.runID,
		OrderID:      order.ID,
		DriverID:     int64(order.DriverID),
		Name:         order.Name,
		FulfilTimeMs: order.PrepDuration().Milliseconds(),
		CreatedAt:    order.CreateTime.UnixMilli(),
	})
}

// DispatchDriver schedules the driver's arrival after driver.PickupDelay seconds.
func (m *OrderManager) DispatchDriver(driver *models.Driver) {
	m.logger.Info("dispatchDriver",
		"driver_id", driver.ID, "order_id", driver.OrderID, "pickup_delay", driver.PickupDelay)

	m.sched.Schedule(driver.Delay(), models.EventDriverArrived, driver)

	m.publish(models.TopicDriverDispatched, models.DriverDispatchedEvent{
		Timestamp:     m.sched.Now().UnixMilli(),
		EventType:     "DispatchDriver",
		RunID:         m.runID,
		OrderID:       driver.OrderID,
		DriverID:      int64(driver.ID),
		PickupDelayMs: driver.Delay().Milliseconds(),
		StartedAt:     driver.StartTime.UnixMilli(),
	})
}

func (m *OrderManager) orderPrepared(order *models.Order) {
	now := m.sched.Now()
	order.FulfilledTime = now
	m.logger.Info("orderPrepared", "order_id", order.ID, "name", order.Name, "driver_id", order.DriverID)

	m.publish(models.TopicOrderPrepared, models.OrderPreparedEvent{
		Timestamp:   now.UnixMilli(),
		EventType:   models.EventOrderPrepared,
		RunID:       m.runID,
		OrderID:     order.ID,
		DriverID:    int64(order.DriverID),
		Status:      order.Status(),
		FulfilledAt: now.UnixMilli(),
	})

	if p, ok := m.policy.orderPrepared(order); ok {
		m.pickup(p)
	}
}

func (m *OrderManager) driverArrived(driver *models.Driver) {
	now := m.sched.Now()
	driver.ArriveTime = now
	m.logger.Info("driverArrived", "driver_id", driver.ID, "order_id", driver.OrderID)

	m.publish(models.TopicDriverArrived, models.DriverArrivedEvent{
		Timestamp: now.UnixMilli(),
		EventType: models.EventDriverArrived,
		RunID:     m.runID,
		OrderID:   driver.OrderID,
		DriverID:  int64(driver.ID),
		Status:    driver.Status(),
		ArrivedAt: now.UnixMilli(),
	})

	if p, ok := m.policy.driverArrived(driver); ok {
		m.pickup(p)
	}
}

// pickup stamps both sides with the same instant.
func (m *OrderManager) pickup(p pair) {
	now := m.sched.Now()
	p.driver.PickupTime = now
	p.order.PickupTime = now

	mode := m.policy.mode()
	m.logger.Info(mode+" order pickedup",
		"order_name", p.order.Name,
		"order_id", p.order.ID,
		"driver_id", p.driver.ID,
		"driver_order_id", p.driver.OrderID,
	)

	m.publish(models.TopicOrderPickup, models.OrderPickupEvent{
		Timestamp:        now.UnixMilli(),
		EventType:        "PickupOrder",
		RunID:            m.runID,
		OrderID:          p.order.ID,
		DriverID:         int64(p.driver.ID),
		MatchMode:        mode,
		AssignedDriverID: int64(p.order.DriverID),
		AssignedOrderID:  p.driver.OrderID,
		OrderWaitMs:      p.order.WaitTime().Milliseconds(),
		DriverWaitMs:     p.driver.WaitTime().Milliseconds(),
		PickupAt:         now.UnixMilli(),
	})

	m.updateStats(p.order, p.driver)

	for _, fn := range m.observers {
		fn(Pickup{Order: p.order, Driver: p.driver, Mode: mode, Time: now})
	}
}

func (m *OrderManager) updateStats(order *models.Order, driver *models.Driver) {
	m.stats.record(order, driver)
	if m.stats.OrdersReceived != m.stats.OrdersDelivered {
		return
	}

	s := m.stats
	m.logger.Info("simulation summary",
		"orders_delivered", s.OrdersDelivered,
		"avg_order_wait_ms", truncMs(s.AvgOrderWaitMs),
		"avg_driver_wait_ms", truncMs(s.AvgDriverWaitMs),
		"avg_order_prep_ms", truncMs(s.AvgOrderPrepMs),
		"avg_driver_delay_ms", truncMs(s.AvgDriverDelayMs),
	)
	m.publish(models.TopicSimulationSummary, models.SimulationSummaryEvent{
		Timestamp:        m.sched.Now().UnixMilli(),
		EventType:        "SimulationSummary",
		RunID:            m.runID,
		MatchMode:        m.policy.mode(),
		OrdersReceived:   int64(s.OrdersReceived),
		OrdersDelivered:  int64(s.OrdersDelivered),
		AvgOrderWaitMs:   truncMs(s.AvgOrderWaitMs),
		AvgDriverWaitMs:  truncMs(s.AvgDriverWaitMs),
		AvgOrderPrepMs:   truncMs(s.AvgOrderPrepMs),
		AvgDriverDelayMs: truncMs(s.AvgDriverDelayMs),
	})
}

func (m *OrderManager) publish(topic string, event interface{}) {
	if m.publisher == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		m.logger.Error("failed to serialize event", "topic", topic, "error", err)
		return
	}
	if err := m.publisher.WriteMessage(topic, data); err != nil {
		m.logger.Error("failed to write message", "topic", topic, "error", err)
	}
}
