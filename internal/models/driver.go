package models

import "time"

type Driver struct {
	ID          int       `json:"id"`
	StartTime   time.Time `json:"start_time"`
	PickupDelay float64   `json:"pickup_delay"` // seconds until the driver reaches the kitchen
	OrderID     string    `json:"order_id"`
	ArriveTime  time.Time `json:"arrive_time"`
	PickupTime  time.Time `json:"pickup_time"`
}

func NewDriver(id int, startTime time.Time, pickupDelay float64) *Driver {
	return &Driver{
		ID:          id,
		StartTime:   startTime,
		PickupDelay: pickupDelay,
	}
}

// Delay is PickupDelay as a time.Duration.
func (d *Driver) Delay() time.Duration {
	return secondsToDuration(d.PickupDelay)
}

// WaitTime is how long the driver waited at the kitchen before pickup.
func (d *Driver) WaitTime() time.Duration {
	return d.PickupTime.Sub(d.ArriveTime)
}

func (d *Driver) Status() string {
	switch {
	case !d.PickupTime.IsZero():
		return DriverStatusPickedUp
	case !d.ArriveTime.IsZero():
		return DriverStatusArrived
	default:
		return DriverStatusDispatched
	}
}

// AssignDriver links an order with the driver dispatched for it.
func AssignDriver(order *Order, driver *Driver) {
	order.DriverID = driver.ID
	driver.OrderID = order.ID
}
