package models

import "time"

// OrderRecord is one entry of the order data file.
type OrderRecord struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	FulfilTime float64 `json:"fulfilTime"` // seconds
}

type Order struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	FulfilTime    float64   `json:"fulfil_time"` // seconds the kitchen needs
	CreateTime    time.Time `json:"create_time"`
	FulfilledTime time.Time `json:"fulfilled_time"`
	PickupTime    time.Time `json:"pickup_time"`
	DriverID      int       `json:"driver_id"`
}

func NewOrder(record OrderRecord, createTime time.Time) *Order {
	return &Order{
		ID:         record.ID,
		Name:       record.Name,
		FulfilTime: record.FulfilTime,
		CreateTime: createTime,
	}
}

// PrepDuration is FulfilTime as a time.Duration.
func (o *Order) PrepDuration() time.Duration {
	return secondsToDuration(o.FulfilTime)
}

// WaitTime is how long the prepared order sat before pickup. It is only
// meaningful once both FulfilledTime and PickupTime are set.
func (o *Order) WaitTime() time.Duration {
	return o.PickupTime.Sub(o.FulfilledTime)
}

func (o *Order) Status() string {
	switch {
	case !o.PickupTime.IsZero():
		return OrderStatusPickedUp
	case !o.FulfilledTime.IsZero():
		return OrderStatusPrepared
	default:
		return OrderStatusReceived
	}
}

func secondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}
