package match

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Book is a single-instrument in-memory limit order book. One mutex
// guards all state; every public operation, including the read-only
// ones, holds it for its entire duration so callers observe atomic
// effects (§5's linearisability requirement).
type Book struct {
	mu  sync.Mutex
	bid *sideQueue
	ask *sideQueue

	bidAgg *aggregateIndex
	askAgg *aggregateIndex

	orders map[OrderID]*Order

	seq uint64

	publisher Publisher
	clock     Clock
	log       *slog.Logger
	cutoverHour int
	prunerSlack time.Duration

	done     chan struct{}
	pruneNow chan struct{}
	prunerWG sync.WaitGroup
	closed   bool
}

// BookOption configures a Book at construction using the functional-
// options idiom.
type BookOption func(*Book)

// WithClock overrides the pruner's time source. Defaults to the system
// clock.
func WithClock(c Clock) BookOption {
	return func(b *Book) { b.clock = c }
}

// WithCutoverHour sets the local hour (0-23) at which good-for-day orders
// are swept. Defaults to 16.
func WithCutoverHour(hour int) BookOption {
	return func(b *Book) { b.cutoverHour = hour }
}

// WithPrunerSlack adds slack after the computed cutover before the
// pruner wakes, bounding races with orders admitted in the same instant.
// Defaults to 100ms.
func WithPrunerSlack(d time.Duration) BookOption {
	return func(b *Book) { b.prunerSlack = d }
}

// WithPublisher attaches a Publisher that receives a BookEvent batch
// after every public operation completes and the lock is released.
// Defaults to DiscardPublisher.
func WithPublisher(p Publisher) BookOption {
	return func(b *Book) { b.publisher = p }
}

// WithLogger overrides this Book's logger. Defaults to the package-level
// logger set by SetLogger.
func WithLogger(l *slog.Logger) BookOption {
	return func(b *Book) { b.log = l }
}

// NewBook constructs a Book and starts its background pruner.
func NewBook(opts ...BookOption) *Book {
	b := &Book{
		bid:         newSideQueue(Buy),
		ask:         newSideQueue(Sell),
		bidAgg:      newAggregateIndex(Buy),
		askAgg:      newAggregateIndex(Sell),
		orders:      make(map[OrderID]*Order),
		publisher:   DiscardPublisher{},
		clock:       realClock{},
		log:         logger,
		cutoverHour: 16,
		prunerSlack: 100 * time.Millisecond,
		done:        make(chan struct{}),
		pruneNow:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.prunerWG.Add(1)
	go b.runPruner()

	return b
}

func (b *Book) sideFor(side Side) (*sideQueue, *aggregateIndex) {
	if side == Buy {
		return b.bid, b.bidAgg
	}
	return b.ask, b.askAgg
}

func (b *Book) oppositeFor(side Side) (*sideQueue, *aggregateIndex) {
	if side == Buy {
		return b.ask, b.askAgg
	}
	return b.bid, b.bidAgg
}

func (b *Book) nextSeq() uint64 {
	b.seq++
	return b.seq
}

// insertLocked records order as resting: side queue, aggregate, and the
// id index all get it in the same call so they can never drift apart.
func (b *Book) insertLocked(order *Order) {
	side, agg := b.sideFor(order.Side)
	side.insert(order)
	agg.onAdded(order.Price, order.Remaining)
	b.orders[order.ID] = order
}

// removeLocked erases order from the side queue, aggregate, and id
// index. It does not fire any event; callers build the event from the
// order's state before calling this.
func (b *Book) removeLocked(order *Order) {
	side, agg := b.sideFor(order.Side)
	side.remove(order)
	agg.onRemoved(order.Price, order.Remaining)
	delete(b.orders, order.ID)
}

func (b *Book) openedEvent(order *Order, now time.Time) BookEvent {
	ev := buildEvent(b.nextSeq(), EventOpened, now)
	ev.Side = order.Side
	ev.OrderID = order.ID
	ev.OrderType = order.Type
	ev.Price = order.Price
	ev.Quantity = order.Remaining
	return ev
}

func (b *Book) cancelledEvent(order *Order, now time.Time) BookEvent {
	ev := buildEvent(b.nextSeq(), EventCancelled, now)
	ev.Side = order.Side
	ev.OrderID = order.ID
	ev.OrderType = order.Type
	ev.Price = order.Price
	ev.Quantity = order.Remaining
	return ev
}

func (b *Book) rejectedEvent(order *Order, reason RejectReason, now time.Time) BookEvent {
	ev := buildEvent(b.nextSeq(), EventRejected, now)
	ev.Side = order.Side
	ev.OrderID = order.ID
	ev.OrderType = order.Type
	ev.Price = order.Price
	ev.Quantity = order.Remaining
	ev.RejectReason = reason
	return ev
}

func (b *Book) matchedEvent(leg TradeLeg, side Side, orderType OrderType, counter OrderID, now time.Time) BookEvent {
	ev := buildEvent(b.nextSeq(), EventMatched, now)
	ev.Side = side
	ev.OrderID = leg.OrderID
	ev.OrderType = orderType
	ev.Price = leg.Price
	ev.Quantity = leg.Quantity
	ev.CounterID = counter
	return ev
}

func (b *Book) prunedEvent(order *Order, now time.Time) BookEvent {
	ev := buildEvent(b.nextSeq(), EventPruned, now)
	ev.Side = order.Side
	ev.OrderID = order.ID
	ev.OrderType = order.Type
	ev.Price = order.Price
	ev.Quantity = order.Remaining
	return ev
}

// Add admits order, matches it per §4.2-§4.7, and returns the (possibly
// empty) list of trades generated. A duplicate id is a no-op returning
// no trades.
func (b *Book) Add(order *Order) Trades {
	b.mu.Lock()
	trades, events := b.addLocked(order)
	closed := b.closed
	b.mu.Unlock()

	if closed {
		return nil
	}
	b.publisher.Publish(events)
	return trades
}

func (b *Book) addLocked(order *Order) (Trades, []BookEvent) {
	if b.closed {
		b.log.Debug("add rejected", "err", ErrShutdown, "order_id", order.ID)
		return nil, nil
	}

	now := b.clock.Now()

	if _, exists := b.orders[order.ID]; exists {
		b.log.Debug("order rejected", "err", errDuplicateID, "order_id", order.ID)
		return nil, []BookEvent{b.rejectedEvent(order, RejectReasonDuplicateID, now)}
	}

	if reason, ok := b.admitLocked(order); !ok {
		return nil, []BookEvent{b.rejectedEvent(order, reason, now)}
	}

	b.insertLocked(order)
	events := []BookEvent{b.openedEvent(order, now)}

	trades, matchEvents := b.matchLocked(now)
	events = append(events, matchEvents...)

	events = append(events, b.postMatchCleanupLocked(now)...)

	return trades, events
}

// Cancel removes order id from the book if present, firing a Cancelled
// event. Absent ids are a no-op.
func (b *Book) Cancel(id OrderID) {
	b.mu.Lock()
	events := b.cancelLocked(id)
	closed := b.closed
	b.mu.Unlock()

	if closed {
		return
	}
	b.publisher.Publish(events)
}

func (b *Book) cancelLocked(id OrderID) []BookEvent {
	if b.closed {
		b.log.Debug("cancel rejected", "err", ErrShutdown, "order_id", id)
		return nil
	}
	order, ok := b.orders[id]
	if !ok {
		return nil
	}
	now := b.clock.Now()
	ev := b.cancelledEvent(order, now)
	b.removeLocked(order)
	return []BookEvent{ev}
}

// ModifyRequest describes a replacement for an existing resting order.
// The original order's type is preserved; time priority is lost because
// Modify is implemented as cancel-then-add, never an in-place amend.
type ModifyRequest struct {
	ID       OrderID
	Side     Side
	Price    Price
	Quantity Quantity
}

// Modify cancels the existing order (if present) and re-adds it with the
// new price/quantity but the original order type. A missing id is a
// no-op returning no trades.
func (b *Book) Modify(req ModifyRequest) Trades {
	b.mu.Lock()
	trades, events := b.modifyLocked(req)
	closed := b.closed
	b.mu.Unlock()

	if closed {
		return nil
	}
	b.publisher.Publish(events)
	return trades
}

func (b *Book) modifyLocked(req ModifyRequest) (Trades, []BookEvent) {
	if b.closed {
		b.log.Debug("modify rejected", "err", ErrShutdown, "order_id", req.ID)
		return nil, nil
	}
	existing, ok := b.orders[req.ID]
	if !ok {
		b.log.Debug("modify rejected", "err", errUnknownOrderID, "order_id", req.ID)
		return nil, []BookEvent{b.rejectedEvent(&Order{ID: req.ID, Side: req.Side}, RejectReasonUnknownOrderID, b.clock.Now())}
	}

	orderType := existing.Type
	cancelEvents := b.cancelLocked(req.ID)

	replacement := NewOrder(req.ID, req.Side, orderType, req.Price, req.Quantity)
	trades, addEvents := b.addLocked(replacement)

	events := append(cancelEvents, addEvents...)
	return trades, events
}

// Size returns the number of resting orders.
func (b *Book) Size() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.orders)
}

// GetLevelInfos returns a best-first snapshot of both sides.
func (b *Book) GetLevelInfos() LevelInfos {
	b.mu.Lock()
	defer b.mu.Unlock()
	return LevelInfos{
		Bids: b.bidAgg.snapshot(),
		Asks: b.askAgg.snapshot(),
	}
}

// Close shuts the book down: no further Add/Cancel/Modify take effect,
// and the pruner goroutine is joined before Close returns (or ctx
// expires).
func (b *Book) Close(ctx context.Context) error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	close(b.done)

	doneCh := make(chan struct{})
	go func() {
		b.prunerWG.Wait()
		close(doneCh)
	}()

	select {
	case <-doneCh:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
