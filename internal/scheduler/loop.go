// Package scheduler fires simulation events after a delay. Every handler runs
// on the goroutine that called Run, one at a time, so handlers can share state
// without locking.
package scheduler

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/chrisdamba/foodmatch/internal/models"
)

// Handler processes one dequeued event.
type Handler func(event *models.Event)

// Scheduler is the part of Loop the matching engine depends on.
type Scheduler interface {
	Now() time.Time
	Schedule(delay time.Duration, eventType string, data interface{})
	Handle(eventType string, h Handler)
}

type Loop struct {
	queue     *models.EventQueue
	clock     Clock
	handlers  map[string]Handler
	wake      chan struct{}
	processed atomic.Int64
	logger    *slog.Logger
}

func NewLoop(clock Clock, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loop{
		queue:    models.NewEventQueue(),
		clock:    clock,
		handlers: make(map[string]Handler),
		wake:     make(chan struct{}, 1),
		logger:   logger,
	}
}

func (l *Loop) Now() time.Time {
	return l.clock.Now()
}

// Handle registers h for eventType. Handlers must be registered before Run.
func (l *Loop) Handle(eventType string, h Handler) {
	l.handlers[eventType] = h
}

// Schedule enqueues an event to fire delay after the current time. It is safe
// to call from any goroutine.
func (l *Loop) Schedule(delay time.Duration, eventType string, data interface{}) {
	if delay < 0 {
		delay = 0
	}
	l.queue.Enqueue(&models.Event{
		Time: l.clock.Now().Add(delay),
		Type: eventType,
		Data: data,
	})

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run dispatches events in time order until the queue is empty or ctx is
// done. Pending events are never dropped by Run itself: returning because
// the queue is empty means every scheduled event has fired.
func (l *Loop) Run(ctx context.Context) error {
	for {
		next := l.queue.Peek()
		if next == nil {
			l.logger.Debug("event queue drained", "events_processed", l.Processed())
			return nil
		}

		if err := l.clock.WaitUntil(ctx, next.Time, l.wake); err != nil {
			return err
		}

		event := l.queue.DequeueDue(l.clock.Now())
		if event == nil {
			// woken early by a newly scheduled event
			continue
		}
		l.processEvent(event)
	}
}

func (l *Loop) processEvent(event *models.Event) {
	h, ok := l.handlers[event.Type]
	if !ok {
		l.logger.Warn("no handler registered for event", "event_type", event.Type)
		return
	}
	h(event)

	if n := l.processed.Add(1); n%1000 == 0 {
		l.logger.Debug("events processed", "count", n, "pending", l.queue.Len())
	}
}

// Pending returns the number of scheduled events that have not fired yet.
func (l *Loop) Pending() int {
	return l.queue.Len()
}

func (l *Loop) Processed() int64 {
	return l.processed.Load()
}
