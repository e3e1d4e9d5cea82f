package match

// Stats is a snapshot of book-wide counters, grounded on the same
// bid/ask split every other read operation uses.
type Stats struct {
	BidOrders int
	AskOrders int
	BidLevels int
	AskLevels int
}

// Stats reports resting-order and price-level counts for both sides.
func (b *Book) Stats() Stats {
	b.mu.Lock()
	defer b.mu.Unlock()

	var bidOrders, askOrders int
	for _, o := range b.orders {
		if o.Side == Buy {
			bidOrders++
		} else {
			askOrders++
		}
	}

	return Stats{
		BidOrders: bidOrders,
		AskOrders: askOrders,
		BidLevels: b.bidAgg.levels.Len(),
		AskLevels: b.askAgg.levels.Len(),
	}
}
