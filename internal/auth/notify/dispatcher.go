package notify

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

const (
	DefaultWorkers   = 4
	DefaultQueueSize = 256

	sendTimeout = 10 * time.Second
)

// Dispatcher runs effects on a bounded worker pool. Dispatch never blocks:
// when the queue is full the effect is dropped and logged. Delivery errors
// are logged and never reach the caller.
type Dispatcher struct {
	Sender  Sender
	Logger  *slog.Logger
	Workers int

	queue   chan Effect
	done    chan struct{}
	wg      sync.WaitGroup
	dropped atomic.Uint64
	closed  atomic.Bool
	once    sync.Once
}

// NewDispatcher creates a dispatcher. Non-positive sizes fall back to the defaults.
func NewDispatcher(sender Sender, logger *slog.Logger, workers, queueSize int) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	return &Dispatcher{
		Sender:  sender,
		Logger:  logger,
		Workers: workers,
		queue:   make(chan Effect, queueSize),
		done:    make(chan struct{}),
	}
}

// Start launches the workers. Call Stop to drain and shut them down.
func (d *Dispatcher) Start() {
	for range d.Workers {
		d.wg.Add(1)
		go d.run()
	}
	d.Logger.Info("notification dispatcher started", "workers", d.Workers, "queue_size", cap(d.queue))
}

// Stop rejects new effects, delivers whatever is queued and waits for the workers.
func (d *Dispatcher) Stop() {
	d.once.Do(func() {
		d.closed.Store(true)
		close(d.done)
		d.wg.Wait()
		d.Logger.Info("notification dispatcher stopped", "dropped", d.dropped.Load())
	})
}

// Dispatch enqueues effects for delivery.
func (d *Dispatcher) Dispatch(ctx context.Context, effects ...Effect) {
	for _, e := range effects {
		if d.closed.Load() {
			d.drop(ctx, e, "dispatcher stopped")
			continue
		}
		select {
		case d.queue <- e:
		default:
			d.drop(ctx, e, "queue full")
		}
	}
}

// Dropped is the number of effects discarded so far.
func (d *Dispatcher) Dropped() uint64 {
	return d.dropped.Load()
}

func (d *Dispatcher) drop(ctx context.Context, e Effect, reason string) {
	d.dropped.Add(1)
	d.Logger.WarnContext(ctx, "notification dropped",
		"reason", reason,
		"kind", string(e.Kind),
		"account_id", e.AccountID,
	)
}

func (d *Dispatcher) run() {
	defer d.wg.Done()

	for {
		select {
		case e := <-d.queue:
			d.send(e)
		case <-d.done:
			for {
				select {
				case e := <-d.queue:
					d.send(e)
				default:
					return
				}
			}
		}
	}
}

func (d *Dispatcher) send(e Effect) {
	// Effects outlive the request that produced them.
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := d.Sender.Send(ctx, e); err != nil {
		d.Logger.Error("notification delivery failed",
			"kind", string(e.Kind),
			"account_id", e.AccountID,
			"err", err,
		)
	}
}
