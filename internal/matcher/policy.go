package matcher

import "github.com/chrisdamba/foodmatch/internal/models"

type pair struct {
	order  *models.Order
	driver *models.Driver
}

// policy decides which waiting order and driver get paired when one of them
// becomes ready.
type policy interface {
	mode() string
	orderPrepared(order *models.Order) (pair, bool)
	driverArrived(driver *models.Driver) (pair, bool)
	pending() (orders, drivers int)
}

func newPolicy(matchOrderWithDriver bool) policy {
	if matchOrderWithDriver {
		return &matchedPolicy{
			pendingOrderMap:  make(map[string]*models.Order),
			pendingDriverMap: make(map[int]*models.Driver),
		}
	}
	return &fifoPolicy{}
}

// matchedPolicy pairs an order only with the driver dispatched for it. A
// prepared order waits under its own id until its driver looks it up via
// driver.OrderID; an arrived driver waits under its own id until its order
// looks it up via order.DriverID.
type matchedPolicy struct {
	pendingOrderMap  map[string]*models.Order
	pendingDriverMap map[int]*models.Driver
}

func (p *matchedPolicy) mode() string { return models.MatchModeMatched }

func (p *matchedPolicy) orderPrepared(order *models.Order) (pair, bool) {
	driver, ok := p.pendingDriverMap[order.DriverID]
	if !ok {
		p.pendingOrderMap[order.ID] = order
		return pair{}, false
	}
	delete(p.pendingDriverMap, driver.ID)
	return pair{order: order, driver: driver}, true
}

func (p *matchedPolicy) driverArrived(driver *models.Driver) (pair, bool) {
	order, ok := p.pendingOrderMap[driver.OrderID]
	if !ok {
		p.pendingDriverMap[driver.ID] = driver
		return pair{}, false
	}
	delete(p.pendingOrderMap, order.ID)
	return pair{order: order, driver: driver}, true
}

func (p *matchedPolicy) pending() (int, int) {
	return len(p.pendingOrderMap), len(p.pendingDriverMap)
}

// fifoPolicy pairs the longest waiting driver with the longest waiting
// prepared order, regardless of the nominal assignment.
type fifoPolicy struct {
	driverQueue        []*models.Driver
	preparedOrderQueue []*models.Order
}

func (p *fifoPolicy) mode() string { return models.MatchModeUnmatched }

func (p *fifoPolicy) orderPrepared(order *models.Order) (pair, bool) {
	p.preparedOrderQueue = append(p.preparedOrderQueue, order)
	return p.next()
}

func (p *fifoPolicy) driverArrived(driver *models.Driver) (pair, bool) {
	p.driverQueue = append(p.driverQueue, driver)
	return p.next()
}

func (p *fifoPolicy) next() (pair, bool) {
	if len(p.driverQueue) == 0 || len(p.preparedOrderQueue) == 0 {
		return pair{}, false
	}
	driver := p.driverQueue[0]
	p.driverQueue[0] = nil
	p.driverQueue = p.driverQueue[1:]

	order := p.preparedOrderQueue[0]
	p.preparedOrderQueue[0] = nil
	p.preparedOrderQueue = p.preparedOrderQueue[1:]

	return pair{order: order, driver: driver}, true
}

func (p *fifoPolicy) pending() (int, int) {
	return len(p.preparedOrderQueue), len(p.driverQueue)
}
