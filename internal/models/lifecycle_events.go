package models

import "fmt"

const (
	TopicOrderReceived     = "order_received_events"
	TopicDriverDispatched  = "driver_dispatched_events"
	TopicOrderPrepared     = "order_prepared_events"
	TopicDriverArrived     = "driver_arrived_events"
	TopicOrderPickup       = "order_pickup_events"
	TopicSimulationSummary = "simulation_summary_events"
)

// Topics lists every topic the matcher publishes to.
var Topics = []string{
	TopicOrderReceived,
	TopicDriverDispatched,
	TopicOrderPrepared,
	TopicDriverArrived,
	TopicOrderPickup,
	TopicSimulationSummary,
}

// All event timestamps are unix milliseconds.

type OrderReceivedEvent struct {
	Timestamp    int64  `json:"timestamp" parquet:"name=timestamp, type=INT64"`
	EventType    string `json:"eventType" parquet:"name=eventType, type=BYTE_ARRAY, convertedtype=UTF8"`
	RunID        string `json:"runId" parquet:"name=runId, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderID      string `json:"orderId" parquet:"name=orderId, type=BYTE_ARRAY, convertedtype=UTF8"`
	DriverID     int64  `json:"driverId" parquet:"name=driverId, type=INT64"`
	Name         string `json:"name" parquet:"name=name, type=BYTE_ARRAY, convertedtype=UTF8"`
	FulfilTimeMs int64  `json:"fulfilTimeMs" parquet:"name=fulfilTimeMs, type=INT64"`
	CreatedAt    int64  `json:"createdAt" parquet:"name=createdAt, type=INT64"`
}

type DriverDispatchedEvent struct {
	Timestamp     int64  `json:"timestamp" parquet:"name=timestamp, type=INT64"`
	EventType     string `json:"eventType" parquet:"name=eventType, type=BYTE_ARRAY, convertedtype=UTF8"`
	RunID         string `json:"runId" parquet:"name=runId, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderID       string `json:"orderId" parquet:"name=orderId, type=BYTE_ARRAY, convertedtype=UTF8"`
	DriverID      int64  `json:"driverId" parquet:"name=driverId, type=INT64"`
	PickupDelayMs int64  `json:"pickupDelayMs" parquet:"name=pickupDelayMs, type=INT64"`
	StartedAt     int64  `json:"startedAt" parquet:"name=startedAt, type=INT64"`
}

type OrderPreparedEvent struct {
	Timestamp   int64  `json:"timestamp" parquet:"name=timestamp, type=INT64"`
	EventType   string `json:"eventType" parquet:"name=eventType, type=BYTE_ARRAY, convertedtype=UTF8"`
	RunID       string `json:"runId" parquet:"name=runId, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderID     string `json:"orderId" parquet:"name=orderId, type=BYTE_ARRAY, convertedtype=UTF8"`
	DriverID    int64  `json:"driverId" parquet:"name=driverId, type=INT64"`
	Status      string `json:"status" parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	FulfilledAt int64  `json:"fulfilledAt" parquet:"name=fulfilledAt, type=INT64"`
}

type DriverArrivedEvent struct {
	Timestamp int64  `json:"timestamp" parquet:"name=timestamp, type=INT64"`
	EventType string `json:"eventType" parquet:"name=eventType, type=BYTE_ARRAY, convertedtype=UTF8"`
	RunID     string `json:"runId" parquet:"name=runId, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderID   string `json:"orderId" parquet:"name=orderId, type=BYTE_ARRAY, convertedtype=UTF8"`
	DriverID  int64  `json:"driverId" parquet:"name=driverId, type=INT64"`
	Status    string `json:"status" parquet:"name=status, type=BYTE_ARRAY, convertedtype=UTF8"`
	ArrivedAt int64  `json:"arrivedAt" parquet:"name=arrivedAt, type=INT64"`
}

// OrderPickupEvent records one pairing. OrderID and DriverID are the paired
// entities; AssignedDriverID and AssignedOrderID are the nominal assignments,
// which differ from the pair only in unmatched mode.
type OrderPickupEvent struct {
	Timestamp        int64  `json:"timestamp" parquet:"name=timestamp, type=INT64"`
	EventType        string `json:"eventType" parquet:"name=eventType, type=BYTE_ARRAY, convertedtype=UTF8"`
	RunID            string `json:"runId" parquet:"name=runId, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderID          string `json:"orderId" parquet:"name=orderId, type=BYTE_ARRAY, convertedtype=UTF8"`
	DriverID         int64  `json:"driverId" parquet:"name=driverId, type=INT64"`
	MatchMode        string `json:"matchMode" parquet:"name=matchMode, type=BYTE_ARRAY, convertedtype=UTF8"`
	AssignedDriverID int64  `json:"assignedDriverId" parquet:"name=assignedDriverId, type=INT64"`
	AssignedOrderID  string `json:"assignedOrderId" parquet:"name=assignedOrderId, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrderWaitMs      int64  `json:"orderWaitMs" parquet:"name=orderWaitMs, type=INT64"`
	DriverWaitMs     int64  `json:"driverWaitMs" parquet:"name=driverWaitMs, type=INT64"`
	PickupAt         int64  `json:"pickupAt" parquet:"name=pickupAt, type=INT64"`
}

type SimulationSummaryEvent struct {
	Timestamp        int64  `json:"timestamp" parquet:"name=timestamp, type=INT64"`
	EventType        string `json:"eventType" parquet:"name=eventType, type=BYTE_ARRAY, convertedtype=UTF8"`
	RunID            string `json:"runId" parquet:"name=runId, type=BYTE_ARRAY, convertedtype=UTF8"`
	MatchMode        string `json:"matchMode" parquet:"name=matchMode, type=BYTE_ARRAY, convertedtype=UTF8"`
	OrdersReceived   int64  `json:"ordersReceived" parquet:"name=ordersReceived, type=INT64"`
	OrdersDelivered  int64  `json:"ordersDelivered" parquet:"name=ordersDelivered, type=INT64"`
	AvgOrderWaitMs   int64  `json:"avgOrderWaitMs" parquet:"name=avgOrderWaitMs, type=INT64"`
	AvgDriverWaitMs  int64  `json:"avgDriverWaitMs" parquet:"name=avgDriverWaitMs, type=INT64"`
	AvgOrderPrepMs   int64  `json:"avgOrderPrepMs" parquet:"name=avgOrderPrepMs, type=INT64"`
	AvgDriverDelayMs int64  `json:"avgDriverDelayMs" parquet:"name=avgDriverDelayMs, type=INT64"`
}

// NewEventForTopic returns a pointer to a zero event of the type published on topic.
func NewEventForTopic(topic string) (interface{}, error) {
	switch topic {
	case TopicOrderReceived:
		return new(OrderReceivedEvent), nil
	case TopicDriverDispatched:
		return new(DriverDispatchedEvent), nil
	case TopicOrderPrepared:
		return new(OrderPreparedEvent), nil
	case TopicDriverArrived:
		return new(DriverArrivedEvent), nil
	case TopicOrderPickup:
		return new(OrderPickupEvent), nil
	case TopicSimulationSummary:
		return new(SimulationSummaryEvent), nil
	default:
		return nil, fmt.Errorf("unknown topic: %s", topic)
	}
}
