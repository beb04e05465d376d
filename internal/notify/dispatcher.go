// Package notify delivers request state-change notifications to the actors
// involved in a request's approval chain. Delivery is asynchronous and best
// effort: a failed or dropped notification never affects the transition that
// produced it.
package notify

import (
	"context"
	"sync"

	"retailcore/internal/core"
	"retailcore/pkg/domain"
)

// Sender delivers a single notification to a recipient. Implementations may
// send email, push a webhook, or write to a test buffer.
type Sender interface {
	Send(ctx context.Context, recipient domain.Actor, event core.StateChange) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, recipient domain.Actor, event core.StateChange) error

// Send calls fn.
func (fn SenderFunc) Send(ctx context.Context, recipient domain.Actor, event core.StateChange) error {
	return fn(ctx, recipient, event)
}

// Dispatcher consumes committed state changes and fans them out to the store
// owner and the district reviewers linked to the request's store, skipping the
// actor who performed the transition. It implements core.EventSink.
type Dispatcher struct {
	store  domain.PersistentStore
	sender Sender
	logger core.Logger

	queue  chan core.StateChange
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithLogger installs a logger for delivery failures and dropped events.
func WithLogger(logger core.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithQueueSize overrides the event queue capacity.
func WithQueueSize(size int) Option {
	return func(d *Dispatcher) {
		if size > 0 {
			d.queue = make(chan core.StateChange, size)
		}
	}
}

// NewDispatcher constructs a stopped dispatcher. Call Start before publishing.
func NewDispatcher(store domain.PersistentStore, sender Sender, opts ...Option) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	d := &Dispatcher{
		store:  store,
		sender: sender,
		logger: core.NoopLogger(),
		queue:  make(chan core.StateChange, 64),
		ctx:    ctx,
		cancel: cancel,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Start begins processing queued events.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go d.loop()
}

// Stop signals the dispatcher to halt and waits for in-flight deliveries.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.cancel()
	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Publish enqueues an event without blocking. When the queue is full the
// event is dropped and logged; notifications are at-most-once.
func (d *Dispatcher) Publish(event core.StateChange) {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("notification dropped, queue full", "entity", event.Entity, "entity_id", event.EntityID)
	}
}

func (d *Dispatcher) loop() {
	defer d.wg.Done()
	for {
		select {
		case <-d.ctx.Done():
			return
		case event := <-d.queue:
			d.dispatch(event)
		}
	}
}

func (d *Dispatcher) dispatch(event core.StateChange) {
	recipients, err := d.recipients(event)
	if err != nil {
		d.logger.Warn("notification recipients unresolved", "entity", event.Entity, "entity_id", event.EntityID, "error", err)
		return
	}
	for _, recipient := range recipients {
		if err := d.sender.Send(d.ctx, recipient, event); err != nil {
			d.logger.Warn("notification delivery failed", "recipient", recipient.Email, "entity", event.Entity, "entity_id", event.EntityID, "error", err)
		}
	}
}

// recipients resolves, against the current hierarchy, everyone with a stake
// in the request's store: the owning store actor plus every linked district
// reviewer. The actor who performed the transition is excluded.
func (d *Dispatcher) recipients(event core.StateChange) ([]domain.Actor, error) {
	var recipients []domain.Actor
	err := d.store.View(d.ctx, func(view domain.TransactionView) error {
		seen := map[string]struct{}{event.ActorEmail: {}}
		add := func(actor domain.Actor) {
			if _, dup := seen[actor.Email]; dup {
				return
			}
			seen[actor.Email] = struct{}{}
			recipients = append(recipients, actor)
		}
		if owner, ok := domain.OwnerOf(view, event.StoreID); ok {
			add(owner)
		}
		for _, reviewer := range domain.ReviewersFor(view, event.StoreID) {
			add(reviewer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recipients, nil
}
