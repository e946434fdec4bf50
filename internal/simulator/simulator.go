package simulator

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/chrisdamba/foodmatch/internal/matcher"
	"github.com/chrisdamba/foodmatch/internal/models"
	"github.com/chrisdamba/foodmatch/internal/output"
	"github.com/chrisdamba/foodmatch/internal/scheduler"
	"github.com/lucsky/cuid"
)

// Simulator feeds orders from the data file to the OrderManager at a fixed
// pace, dispatching one driver per order, and owns the run and shutdown
// lifecycle.
type Simulator struct {
	Config  *models.Config
	Loop    *scheduler.Loop
	Manager *matcher.OrderManager
	Orders  []models.OrderRecord
	RunID   string
	Rng     *rand.Rand

	output       output.Destination
	logger       *slog.Logger
	observers    []func(matcher.Pickup)
	nextOrder    int
	nextDriverID int
	shuttingDown atomic.Bool
}

type Option func(*Simulator)

// WithOutput overrides the destination chosen from the config.
func WithOutput(dest output.Destination) Option {
	return func(s *Simulator) { s.output = dest }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithOrders supplies the order records instead of reading Config.OrdersFile.
func WithOrders(records []models.OrderRecord) Option {
	return func(s *Simulator) { s.Orders = records }
}

func NewSimulator(config *models.Config, opts ...Option) *Simulator {
	s := &Simulator{
		Config:       config,
		RunID:        cuid.New(),
		logger:       slog.Default(),
		nextDriverID: 1,
	}
	for _, opt := range opts {
		opt(s)
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s.Rng = rand.New(rand.NewSource(seed))

	var clock scheduler.Clock = scheduler.WallClock{}
	if config.VirtualTime {
		start := config.StartDate
		if start.IsZero() {
			start = time.Now()
		}
		clock = scheduler.NewVirtualClock(start)
	}

	s.Loop = scheduler.NewLoop(clock, s.logger)
	s.Loop.Handle(models.EventReceiveOrder, func(*models.Event) { s.receiveOrder() })
	return s
}

// Run reads the order data, paces ingestion and returns once every pending
// event has fired, or when ctx is cancelled. Unreadable order data is fatal
// and nothing is scheduled.
func (s *Simulator) Run(ctx context.Context) (matcher.Stats, error) {
	if s.Orders == nil {
		records, err := models.LoadOrderRecords(s.Config.OrdersFile)
		if err != nil {
			return matcher.Stats{}, fmt.Errorf("failed to read order data: %w", err)
		}
		s.Orders = records
	}

	if s.output == nil {
		dest, err := s.determineOutputDestination(ctx)
		if err != nil {
			return matcher.Stats{}, err
		}
		s.output = dest
	}
	defer func() {
		if err := s.output.Close(); err != nil {
			s.logger.Error("failed to close output", "error", err)
		}
	}()

	s.Manager = matcher.NewOrderManager(s.Loop, s.Config.MatchDriverWithOrder,
		matcher.WithPublisher(s.output),
		matcher.WithLogger(s.logger),
		matcher.WithRunID(s.RunID),
	)
	for _, fn := range s.observers {
		s.Manager.OnPickup(fn)
	}
	if s.Config.Progress {
		bar := newProgressBar(len(s.Orders), progressOutput)
		s.Manager.OnPickup(func(matcher.Pickup) { _ = bar.Add(1) })
		defer bar.Finish()
	}

	s.logger.Info("dataRead",
		"orders", len(s.Orders),
		"run_id", s.RunID,
		"match_mode", s.Manager.Mode(),
		"order_interval", s.Config.OrderInterval,
	)
	s.Loop.Schedule(s.Config.OrderInterval, models.EventReceiveOrder, nil)

	err := s.Loop.Run(ctx)
	stats := s.Manager.Stats()
	pendingOrders, pendingDrivers := s.Manager.Pending()
	s.logger.Info("simulation completed",
		"orders_received", stats.OrdersReceived,
		"orders_delivered", stats.OrdersDelivered,
		"orders_waiting", pendingOrders,
		"drivers_waiting", pendingDrivers,
		"events_processed", s.Loop.Processed(),
	)
	if err != nil {
		return stats, fmt.Errorf("simulation stopped: %w", err)
	}
	return stats, nil
}

// OnPickup registers fn with the OrderManager once Run creates it.
func (s *Simulator) OnPickup(fn func(matcher.Pickup)) {
	s.observers = append(s.observers, fn)
}

// Shutdown stops ingestion. Orders already received still get prepared,
// matched and picked up before Run returns.
func (s *Simulator) Shutdown() {
	if s.shuttingDown.CompareAndSwap(false, true) {
		s.logger.Info("shutting down, draining pending events")
	}
}

func (s *Simulator) ShuttingDown() bool {
	return s.shuttingDown.Load()
}

func (s *Simulator) receiveOrder() {
	if s.shuttingDown.Load() {
		return
	}
	if s.nextOrder >= len(s.Orders) {
		s.shuttingDown.Store(true)
		return
	}

	record := s.Orders[s.nextOrder]
	s.nextOrder++

	now := s.Loop.Now()
	order := models.NewOrder(record, now)
	driver := models.NewDriver(s.nextDriverID, now, s.pickupDelay())
	s.nextDriverID++
	models.AssignDriver(order, driver)

	s.Manager.OrderReceived(order)
	s.Manager.DispatchDriver(driver)

	if s.nextOrder >= len(s.Orders) {
		s.logger.Info("all orders received", "orders", len(s.Orders))
		s.shuttingDown.Store(true)
		return
	}
	if !s.shuttingDown.Load() {
		s.Loop.Schedule(s.Config.OrderInterval, models.EventReceiveOrder, nil)
	}
}

// pickupDelay draws a driver delay in seconds, uniform in [min, max).
func (s *Simulator) pickupDelay() float64 {
	lo, hi := s.Config.MinPickupDelay, s.Config.MaxPickupDelay
	return lo + s.Rng.Float64()*(hi-lo)
}
