package match

import "time"

// matchLocked repeatedly crosses the best bid against the best ask while
// they cross, under the caller's lock. Each leg of a trade always
// records its own order's limit price — the two legs can and do differ,
// most visibly when a repriced market order holds one fixed price
// across several trades against resting orders at different prices.
//
// The outer loop re-reads both best prices every pass because matching a
// level to exhaustion can change which price is now best. The inner loop
// matches front-vs-front at the price pair captured for this pass until
// one side's front order no longer sits at that price — which also
// covers the case where removing the last order at a level erased the
// level and silently advanced front() to a different price.
func (b *Book) matchLocked(now time.Time) (Trades, []BookEvent) {
	var trades Trades
	var events []BookEvent

	for {
		bidPrice, bidOK := b.bid.bestPrice()
		askPrice, askOK := b.ask.bestPrice()
		if !bidOK || !askOK || bidPrice < askPrice {
			break
		}

		for {
			bidOrder := b.bid.front()
			askOrder := b.ask.front()
			if bidOrder == nil || bidOrder.Price != bidPrice {
				break
			}
			if askOrder == nil || askOrder.Price != askPrice {
				break
			}

			qty := bidOrder.Remaining
			if askOrder.Remaining < qty {
				qty = askOrder.Remaining
			}

			bidLeg := TradeLeg{OrderID: bidOrder.ID, Price: bidOrder.Price, Quantity: qty}
			askLeg := TradeLeg{OrderID: askOrder.ID, Price: askOrder.Price, Quantity: qty}
			trades = append(trades, Trade{Bid: bidLeg, Ask: askLeg})
			b.log.Debug("trade matched",
				"bid_id", bidOrder.ID, "ask_id", askOrder.ID,
				"bid_price", bidLeg.Price, "ask_price", askLeg.Price, "quantity", qty,
				"notional", Notional(askLeg.Price, qty))

			events = append(events, b.matchedEvent(bidLeg, Buy, bidOrder.Type, askOrder.ID, now))
			events = append(events, b.matchedEvent(askLeg, Sell, askOrder.Type, bidOrder.ID, now))

			b.applyFill(bidOrder, qty)
			b.applyFill(askOrder, qty)
		}
	}

	return trades, events
}

// applyFill fills order by qty and reconciles the side queue, the
// aggregate index, and the id index so they never drift apart. qty must
// never exceed order.Remaining — the matching loop always derives it as
// min(bid.Remaining, ask.Remaining), so a non-nil error here means the
// engine's own invariant broke, not a caller mistake, and that is a bug
// worth crashing loudly on rather than limping past silently.
func (b *Book) applyFill(order *Order, qty Quantity) {
	_, agg := b.sideFor(order.Side)

	if err := order.Fill(qty); err != nil {
		panic(err)
	}

	if order.IsFilled() {
		side, _ := b.sideFor(order.Side)
		side.remove(order)
		agg.onRemoved(order.Price, qty)
		delete(b.orders, order.ID)
	} else {
		agg.onPartialMatch(order.Price, qty)
	}
}

// postMatchCleanupLocked cancels a FillAndKill order left resting at the
// front of either side once the crossing loop stops: such an order must
// never rest, but admission only guarantees it could match *something*,
// not that matching would exhaust it.
func (b *Book) postMatchCleanupLocked(now time.Time) []BookEvent {
	var events []BookEvent

	for _, side := range [...]Side{Buy, Sell} {
		sq, _ := b.sideFor(side)
		front := sq.front()
		if front != nil && front.Type == FillAndKill {
			events = append(events, b.cancelledEvent(front, now))
			b.removeLocked(front)
		}
	}

	return events
}
