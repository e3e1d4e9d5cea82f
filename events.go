package match

import (
	"context"
	"sync"
	"time"

	"github.com/go-oms/matchcore/ringbuffer"
	"github.com/rs/xid"
)

// EventType identifies the kind of state change a BookEvent describes.
// OnAdded/OnMatched/OnCancelled are the private, in-process notifications
// §4.3 describes; BookEvent is the additional, copy-based audit record
// published after the book lock is released, for callers that want to
// observe book activity without touching internals.
type EventType uint8

const (
	EventOpened EventType = iota
	EventMatched
	EventCancelled
	EventRejected
	EventPruned
)

func (t EventType) String() string {
	switch t {
	case EventOpened:
		return "opened"
	case EventMatched:
		return "matched"
	case EventCancelled:
		return "cancelled"
	case EventRejected:
		return "rejected"
	case EventPruned:
		return "pruned"
	default:
		return "unknown"
	}
}

// RejectReason names why an admission check refused an order.
type RejectReason uint8

const (
	RejectReasonNone RejectReason = iota
	RejectReasonDuplicateID
	RejectReasonNoImmediateMatch
	RejectReasonInsufficientLiquidity
	RejectReasonEmptyOppositeSide
	RejectReasonUnknownOrderID
)

// BookEvent is a point-in-time, immutable record of one state change.
// Consumers receive copies; mutating a received BookEvent never affects
// book state.
type BookEvent struct {
	EventID      string
	SequenceID   uint64
	Type         EventType
	Side         Side
	OrderID      OrderID
	OrderType    OrderType
	Price        Price
	Quantity     Quantity
	CounterID    OrderID
	RejectReason RejectReason
	CreatedAt    time.Time
}

// Publisher receives BookEvents after the book lock has been released.
// Implementations must either process synchronously before returning or
// copy what they need — the slice passed to Publish is only valid for
// the duration of the call.
type Publisher interface {
	Publish(events []BookEvent)
}

// DiscardPublisher drops every event; useful for benchmarks that don't
// want the allocation cost of recording them.
type DiscardPublisher struct{}

func (DiscardPublisher) Publish([]BookEvent) {}

// MemoryPublisher accumulates events in memory, useful for tests that
// assert on the order and shape of emitted events.
type MemoryPublisher struct {
	mu     sync.RWMutex
	events []BookEvent
}

func NewMemoryPublisher() *MemoryPublisher {
	return &MemoryPublisher{}
}

func (m *MemoryPublisher) Publish(events []BookEvent) {
	if len(events) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
}

func (m *MemoryPublisher) Events() []BookEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]BookEvent, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MemoryPublisher) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.events)
}

// newEventID is the book's source for EventID: a fresh, globally sortable
// xid string on every call.
func newEventID() string {
	return xid.New().String()
}

// buildEvent stamps the common fields shared by every event kind.
func buildEvent(seq uint64, typ EventType, now time.Time) BookEvent {
	return BookEvent{
		EventID:    newEventID(),
		SequenceID: seq,
		Type:       typ,
		CreatedAt:  now,
	}
}

type ringBufferHandler struct {
	downstream Publisher
}

func (h *ringBufferHandler) OnEvent(e BookEvent) {
	h.downstream.Publish([]BookEvent{e})
}

// RingBufferPublisher decouples publication from whatever downstream
// work the wrapped Publisher performs, handing events to an MPSC ring
// buffer drained by its own goroutine.
type RingBufferPublisher struct {
	rb *ringbuffer.Buffer[BookEvent]
}

// NewRingBufferPublisher starts a consumer goroutine immediately;
// capacity must be a power of two.
func NewRingBufferPublisher(capacity int64, downstream Publisher) *RingBufferPublisher {
	rb := ringbuffer.New[BookEvent](capacity, &ringBufferHandler{downstream: downstream})
	rb.Start()
	return &RingBufferPublisher{rb: rb}
}

// Publish hands events to the ring buffer as one contiguous batch so a
// single Add/Cancel/Modify call's events stay together in the delivered
// stream. A crossing deep enough to produce more events than the
// buffer's capacity is split into capacity-sized chunks — each chunk
// still lands contiguously, just not all in one claim.
func (p *RingBufferPublisher) Publish(events []BookEvent) {
	capacity := p.rb.Capacity()
	for int64(len(events)) > capacity {
		p.rb.PublishBatch(events[:capacity])
		events = events[capacity:]
	}
	p.rb.PublishBatch(events)
}

// Shutdown stops accepting new events and blocks until the consumer has
// drained everything already published, or ctx expires.
func (p *RingBufferPublisher) Shutdown(ctx context.Context) error {
	return p.rb.Shutdown(ctx)
}
