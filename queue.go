package match

import "github.com/huandu/skiplist"

// priceLevel is the FIFO list of orders resting at one price. head/tail
// are the ends of an intrusive doubly-linked list whose nodes live inside
// the Order values themselves (see order.go) — the list never allocates
// a separate node, so removing an order given only its *Order pointer is
// O(1).
type priceLevel struct {
	price Price
	head  *Order
	tail  *Order
}

func (lvl *priceLevel) empty() bool {
	return lvl.head == nil
}

func (lvl *priceLevel) pushBack(o *Order) {
	o.prev = lvl.tail
	o.next = nil
	if lvl.tail != nil {
		lvl.tail.next = o
	} else {
		lvl.head = o
	}
	lvl.tail = o
}

func (lvl *priceLevel) unlink(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		lvl.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		lvl.tail = o.prev
	}
	o.next = nil
	o.prev = nil
}

// sideQueue is one side (bid or ask) of the book: a skiplist of price
// levels ordered so that Front always yields the best price for that
// side, plus a map from price to the skiplist element backing O(log P)
// level lookup on insert/remove.
type sideQueue struct {
	side   Side
	list   *skiplist.SkipList
	levels map[Price]*skiplist.Element
}

func newSideQueue(side Side) *sideQueue {
	var cmp skiplist.Comparable
	if side == Buy {
		// Bids iterate best-first descending: highest price first.
		cmp = skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			a, b := lhs.(Price), rhs.(Price)
			if a < b {
				return 1
			} else if a > b {
				return -1
			}
			return 0
		})
	} else {
		// Asks iterate best-first ascending: lowest price first.
		cmp = skiplist.GreaterThanFunc(func(lhs, rhs any) int {
			a, b := lhs.(Price), rhs.(Price)
			if a > b {
				return 1
			} else if a < b {
				return -1
			}
			return 0
		})
	}

	return &sideQueue{
		side:   side,
		list:   skiplist.New(cmp),
		levels: make(map[Price]*skiplist.Element),
	}
}

// bestLevel returns the level at the front of the queue, or nil if the
// side is empty.
func (q *sideQueue) bestLevel() *priceLevel {
	el := q.list.Front()
	if el == nil {
		return nil
	}
	return el.Value.(*priceLevel)
}

// bestPrice returns the price of the front level.
func (q *sideQueue) bestPrice() (Price, bool) {
	lvl := q.bestLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.price, true
}

// front returns the order at the head of the best level, or nil if the
// side is empty.
func (q *sideQueue) front() *Order {
	lvl := q.bestLevel()
	if lvl == nil {
		return nil
	}
	return lvl.head
}

func (q *sideQueue) empty() bool {
	return q.list.Len() == 0
}

// worstLevel returns the level at the back of the queue, or nil if the
// side is empty.
func (q *sideQueue) worstLevel() *priceLevel {
	el := q.list.Back()
	if el == nil {
		return nil
	}
	return el.Value.(*priceLevel)
}

// worstPrice returns the price of the worst (furthest from the market)
// resting level on this side. A market order reprices to the opposite
// side's worst price so it matches down through every resting level in
// one pass.
func (q *sideQueue) worstPrice() (Price, bool) {
	lvl := q.worstLevel()
	if lvl == nil {
		return 0, false
	}
	return lvl.price, true
}

// insert appends o to the tail of its price level, creating the level if
// it does not yet exist.
func (q *sideQueue) insert(o *Order) {
	el, ok := q.levels[o.Price]
	var lvl *priceLevel
	if ok {
		lvl = el.Value.(*priceLevel)
	} else {
		lvl = &priceLevel{price: o.Price}
		q.levels[o.Price] = q.list.Set(o.Price, lvl)
	}
	lvl.pushBack(o)
}

// remove unlinks o from its price level and, if that empties the level,
// erases the level from the skiplist and map.
func (q *sideQueue) remove(o *Order) {
	el, ok := q.levels[o.Price]
	if !ok {
		return
	}
	lvl := el.Value.(*priceLevel)
	lvl.unlink(o)
	if lvl.empty() {
		q.list.RemoveElement(el)
		delete(q.levels, o.Price)
	}
}
