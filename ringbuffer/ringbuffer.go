// Package ringbuffer provides a lock-free multi-producer, single-consumer
// ring buffer used to decouple event production on the book's hot path
// from slower downstream consumers (audit logging, metrics, replication).
package ringbuffer

import (
	"context"
	"errors"
	"runtime"
	"sync/atomic"
)

// ErrShutdownTimeout is returned when Shutdown's context expires before the
// consumer has drained every published event.
var ErrShutdownTimeout = errors.New("ringbuffer: shutdown timed out")

// Handler consumes events drained from a Buffer.
type Handler[T any] interface {
	OnEvent(event T)
}

// Buffer is an MPSC ring buffer. Producers call Publish concurrently;
// a single background goroutine drains events in publish order.
type Buffer[T any] struct {
	_                [56]byte // cache line padding, avoids false sharing on producerSeq
	producerSeq      atomic.Int64
	_                [56]byte
	consumerSeq      atomic.Int64
	_                [56]byte

	slots      []T
	published  []int64
	mask       int64
	capacity   int64
	handler    Handler[T]
	isShutdown atomic.Bool
}

// New creates a Buffer with the given capacity, which must be a power of two.
func New[T any](capacity int64, handler Handler[T]) *Buffer[T] {
	if capacity <= 0 || (capacity&(capacity-1)) != 0 {
		panic("ringbuffer: capacity must be a power of 2")
	}

	rb := &Buffer[T]{
		slots:     make([]T, capacity),
		published: make([]int64, capacity),
		capacity:  capacity,
		mask:      capacity - 1,
		handler:   handler,
	}
	rb.producerSeq.Store(-1)
	rb.consumerSeq.Store(-1)
	for i := range rb.published {
		rb.published[i] = -1
	}
	return rb
}

// Publish enqueues event. Safe to call from multiple goroutines. A full
// buffer causes the caller to spin until the consumer frees a slot.
func (rb *Buffer[T]) Publish(event T) {
	rb.PublishBatch([]T{event})
}

// PublishBatch enqueues events as one contiguous run of sequence numbers,
// claimed with a single CAS rather than one per event. That matters for
// this ring buffer's actual callers: a book operation emits several
// events together (an order opening and then crossing through several
// resting orders), and claiming the whole run atomically keeps those
// events contiguous in the delivered stream even when another producer
// is publishing concurrently — the interleaving happens between batches,
// never inside one. A full buffer causes the caller to spin until the
// consumer frees enough slots for the whole batch.
func (rb *Buffer[T]) PublishBatch(events []T) {
	if rb.isShutdown.Load() || len(events) == 0 {
		return
	}
	n := int64(len(events))
	if n > rb.capacity {
		panic("ringbuffer: batch larger than buffer capacity")
	}

	var start int64
	for {
		cur := rb.producerSeq.Load()
		start = cur + 1
		last := start + n - 1

		wrapPoint := last - rb.capacity
		if wrapPoint > rb.consumerSeq.Load() {
			runtime.Gosched()
			continue
		}

		if rb.producerSeq.CompareAndSwap(cur, last) {
			break
		}
		runtime.Gosched()
	}

	for i, event := range events {
		seq := start + int64(i)
		index := seq & rb.mask
		rb.slots[index] = event
		atomic.StoreInt64(&rb.published[index], seq)
	}
}

// Start launches the background consumer goroutine.
func (rb *Buffer[T]) Start() {
	go rb.consumeLoop()
}

// Shutdown stops accepting new events and blocks until the consumer has
// drained everything already published, or ctx expires.
func (rb *Buffer[T]) Shutdown(ctx context.Context) error {
	rb.isShutdown.Store(true)

	for {
		select {
		case <-ctx.Done():
			return ErrShutdownTimeout
		default:
			if rb.consumerSeq.Load() >= rb.producerSeq.Load() {
				return nil
			}
			runtime.Gosched()
		}
	}
}

func (rb *Buffer[T]) consumeLoop() {
	next := rb.consumerSeq.Load() + 1

	for {
		available := rb.producerSeq.Load()

		if rb.isShutdown.Load() {
			rb.drain(next)
			return
		}

		drained := false
		for next <= available {
			rb.waitAndDeliver(next)
			next++
			drained = true
		}

		if !drained {
			runtime.Gosched()
		}
	}
}

func (rb *Buffer[T]) drain(next int64) {
	available := rb.producerSeq.Load()
	for next <= available {
		rb.waitAndDeliver(next)
		next++
	}
}

func (rb *Buffer[T]) waitAndDeliver(seq int64) {
	index := seq & rb.mask
	for atomic.LoadInt64(&rb.published[index]) != seq {
		runtime.Gosched()
	}
	rb.handler.OnEvent(rb.slots[index])
	rb.consumerSeq.Store(seq)
}

// ConsumerSequence returns the sequence number of the last delivered event.
func (rb *Buffer[T]) ConsumerSequence() int64 {
	return rb.consumerSeq.Load()
}

// ProducerSequence returns the sequence number of the last claimed slot.
func (rb *Buffer[T]) ProducerSequence() int64 {
	return rb.producerSeq.Load()
}

// Pending returns the number of published events not yet delivered.
func (rb *Buffer[T]) Pending() int64 {
	return rb.producerSeq.Load() - rb.consumerSeq.Load()
}

// Capacity returns the buffer's fixed slot count, the largest batch
// PublishBatch can accept in one call.
func (rb *Buffer[T]) Capacity() int64 {
	return rb.capacity
}
