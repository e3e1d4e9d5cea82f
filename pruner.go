package match

import "time"

// runPruner wakes at the next good-for-day cutover (or when TriggerPrune
// is called, for tests) and sweeps GoodForDay orders. It exits once Close
// closes b.done.
func (b *Book) runPruner() {
	defer b.prunerWG.Done()

	for {
		now := b.clock.Now()
		cutover := nextCutover(now, b.cutoverHour, b.prunerSlack)
		timer := time.NewTimer(cutover.Sub(now))

		select {
		case <-b.done:
			timer.Stop()
			return
		case <-b.pruneNow:
			timer.Stop()
			b.pruneGoodForDayOrders()
		case <-timer.C:
			b.pruneGoodForDayOrders()
		}
	}
}

// TriggerPrune wakes the pruner immediately instead of waiting for the
// next cutover. Intended for tests; a pending trigger is coalesced if
// the pruner hasn't consumed the last one yet.
func (b *Book) TriggerPrune() {
	select {
	case b.pruneNow <- struct{}{}:
	default:
	}
}

// pruneGoodForDayOrders cancels every resting GoodForDay order. It uses
// two passes under the lock rather than one long one: the first collects
// candidate ids and releases the lock immediately, so a sweep over a
// large book never blocks Add/Cancel/Modify for its full duration; the
// second re-validates each id (it may have matched or been cancelled in
// between) before actually removing it.
func (b *Book) pruneGoodForDayOrders() {
	b.mu.Lock()
	ids := make([]OrderID, 0, len(b.orders))
	for id, o := range b.orders {
		if o.Type == GoodForDay {
			ids = append(ids, id)
		}
	}
	b.mu.Unlock()

	if len(ids) == 0 {
		return
	}

	b.mu.Lock()
	now := b.clock.Now()
	var events []BookEvent
	for _, id := range ids {
		order, ok := b.orders[id]
		if !ok || order.Type != GoodForDay {
			continue
		}
		events = append(events, b.prunedEvent(order, now))
		b.removeLocked(order)
	}
	closed := b.closed
	b.mu.Unlock()

	if closed || len(events) == 0 {
		return
	}
	b.publisher.Publish(events)
}
