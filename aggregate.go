package match

import "github.com/igrmk/treemap/v2"

// levelAgg is the aggregated state of one price level, redundant with the
// corresponding side queue's own list but kept separately so CanFullyFill
// can walk levels in crossing order without touching individual orders.
type levelAgg struct {
	quantity uint64
	count    int
}

// aggregateIndex is the price→{quantity,count} view for one book side,
// ordered best-first so a scan from the beginning is a crossing-order
// scan. Every side-queue mutation is paired with exactly one call into
// the matching side's aggregate.
type aggregateIndex struct {
	levels *treemap.TreeMap[Price, *levelAgg]
}

func newAggregateIndex(side Side) *aggregateIndex {
	var less func(a, b Price) bool
	if side == Buy {
		less = func(a, b Price) bool { return a > b } // best-first: highest price first
	} else {
		less = func(a, b Price) bool { return a < b } // best-first: lowest price first
	}
	return &aggregateIndex{levels: treemap.NewWithKeyCompare[Price, *levelAgg](less)}
}

// onAdded accounts for a newly admitted order: +1 count, +initial quantity.
func (a *aggregateIndex) onAdded(price Price, qty Quantity) {
	lvl, ok := a.levels.Get(price)
	if !ok {
		lvl = &levelAgg{}
		a.levels.Set(price, lvl)
	}
	lvl.quantity += uint64(qty)
	lvl.count++
}

// onRemoved accounts for a cancel or a fully-filled match leg: -1 count,
// -quantity. The level is erased once its count reaches zero.
func (a *aggregateIndex) onRemoved(price Price, qty Quantity) {
	lvl, ok := a.levels.Get(price)
	if !ok {
		return
	}
	lvl.quantity -= uint64(qty)
	lvl.count--
	if lvl.count <= 0 {
		a.levels.Del(price)
	}
}

// onPartialMatch accounts for a partial match leg: count unchanged,
// quantity reduced by the matched amount.
func (a *aggregateIndex) onPartialMatch(price Price, qty Quantity) {
	lvl, ok := a.levels.Get(price)
	if !ok {
		return
	}
	lvl.quantity -= uint64(qty)
}

// bestPrice returns the first (best) level's price.
func (a *aggregateIndex) bestPrice() (Price, bool) {
	it := a.levels.Iterator()
	if !it.Valid() {
		return 0, false
	}
	return it.Key(), true
}

// canFullyFill reports whether this aggregate, scanned best-first and
// stopping at limit, holds at least quantity. side is the side placing
// the prospective order (buy scans the ask aggregate ascending up to
// limit; sell scans the bid aggregate descending down to limit).
func (a *aggregateIndex) canFullyFill(side Side, limit Price, quantity Quantity) bool {
	var accumulated uint64
	for it := a.levels.Iterator(); it.Valid(); it.Next() {
		price := it.Key()
		if side == Buy && price > limit {
			break
		}
		if side == Sell && price < limit {
			break
		}
		accumulated += it.Value().quantity
		if accumulated >= uint64(quantity) {
			return true
		}
	}
	return false
}

// snapshot returns the aggregate's levels as LevelInfo in best-first
// order, for GetLevelInfos.
func (a *aggregateIndex) snapshot() []LevelInfo {
	out := make([]LevelInfo, 0, a.levels.Len())
	for it := a.levels.Iterator(); it.Valid(); it.Next() {
		out = append(out, LevelInfo{Price: it.Key(), Quantity: Quantity(it.Value().quantity)})
	}
	return out
}
