package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/valeriaulyamaeva/fintrack/internal/database"
	"github.com/valeriaulyamaeva/fintrack/models"
)

var ErrStopped = errors.New("dispatcher is stopped")

// Publisher accepts a notification for later delivery.
type Publisher interface {
	Publish(ctx context.Context, userID, text string) error
}

// Sink is where a notification ends up. Deliver must tolerate the same
// message twice.
type Sink interface {
	Deliver(ctx context.Context, msg Message) error
}

// StoreSink writes notifications into the notifications table, keyed by the
// outbox message ID.
type StoreSink struct {
	DB *database.DB
}

func (s StoreSink) Deliver(ctx context.Context, msg Message) error {
	return s.DB.CreateNotification(ctx, &models.Notification{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Message:   msg.Text,
		CreatedAt: msg.CreatedAt,
	})
}

type Options struct {
	Workers     int
	QueueSize   int
	MaxAttempts int
	Timeout     time.Duration
	Logger      *slog.Logger
}

// Dispatcher implements Publisher on top of an Outbox and a pool of workers.
type Dispatcher struct {
	outbox *Outbox
	sink   Sink
	opts   Options
	log    *slog.Logger

	mu      sync.RWMutex
	queue   chan Message
	stopped bool
	wg      sync.WaitGroup
}

func NewDispatcher(outbox *Outbox, sink Sink, opts Options) *Dispatcher {
	if opts.Workers <= 0 {
		opts.Workers = 2
	}
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 5
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		outbox: outbox,
		sink:   sink,
		opts:   opts,
		log:    logger.With("component", "notify"),
		queue:  make(chan Message, opts.QueueSize),
	}
}

// Start launches the workers. They run until Stop.
func (d *Dispatcher) Start() {
	for i := 0; i < d.opts.Workers; i++ {
		d.wg.Add(1)
		go func() {
			defer d.wg.Done()
			for msg := range d.queue {
				d.deliver(msg)
			}
		}()
	}
}

// Stop drains the queue and waits for the workers. Messages not delivered by
// then remain in the outbox.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()
	d.wg.Wait()
}

// Publish persists the message in the outbox and queues it. It returns once
// the message is durable; delivery happens later.
func (d *Dispatcher) Publish(ctx context.Context, userID, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := Message{
		ID:        uuid.NewString(),
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	if err := d.outbox.Put(msg); err != nil {
		return err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.stopped {
		return ErrStopped
	}
	select {
	case d.queue <- msg:
	default:
		d.log.Warn("notification queue full, leaving message for the next sweep", "id", msg.ID)
	}
	return nil
}

// Sweep retries everything left in the outbox.
func (d *Dispatcher) Sweep(ctx context.Context) error {
	pending, err := d.outbox.Pending()
	if err != nil {
		return err
	}
	for _, msg := range pending {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.deliver(msg)
	}
	return nil
}

func (d *Dispatcher) deliver(msg Message) {
	ctx, cancel := context.WithTimeout(context.Background(), d.opts.Timeout)
	defer cancel()

	err := d.sink.Deliver(ctx, msg)
	if err == nil {
		if err := d.outbox.Ack(msg.ID); err != nil {
			d.log.Error("error acking notification", "id", msg.ID, "err", err)
		}
		return
	}

	msg.Attempts++
	msg.LastError = err.Error()
	if msg.Attempts >= d.opts.MaxAttempts {
		d.log.Error("giving up on notification", "id", msg.ID, "user_id", msg.UserID, "attempts", msg.Attempts, "err", err)
		if err := d.outbox.Bury(msg); err != nil {
			d.log.Error("error burying notification", "id", msg.ID, "err", err)
		}
		return
	}
	d.log.Warn("notification delivery failed", "id", msg.ID, "attempt", msg.Attempts, "err", err)
	if err := d.outbox.Put(msg); err != nil {
		d.log.Error("error requeueing notification", "id", msg.ID, "err", err)
	}
}
