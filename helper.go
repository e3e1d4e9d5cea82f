package match

// DepthChange is the signed depth delta a BookEvent implies at one price
// level, for a consumer rebuilding an aggregated view from the event
// stream instead of the book's internals.
type DepthChange struct {
	Side     Side
	Price    Price
	SizeDiff int64
}

// CalculateDepthChange derives the depth change implied by ev. Matched
// events are already per-leg (the book emits one per affected order), so
// unlike a taker-centric log, the side/price/quantity on ev already name
// the level to adjust directly.
func CalculateDepthChange(ev *BookEvent) DepthChange {
	switch ev.Type {
	case EventOpened:
		return DepthChange{Side: ev.Side, Price: ev.Price, SizeDiff: int64(ev.Quantity)}
	case EventCancelled, EventPruned:
		return DepthChange{Side: ev.Side, Price: ev.Price, SizeDiff: -int64(ev.Quantity)}
	case EventMatched:
		return DepthChange{Side: ev.Side, Price: ev.Price, SizeDiff: -int64(ev.Quantity)}
	case EventRejected:
		return DepthChange{}
	default:
		return DepthChange{}
	}
}
