package match

// Order is a resting or in-flight order record. Once admitted to the book
// it is referenced from exactly two places: the book's id index and its
// side queue's price-level list, via the intrusive next/prev pointers
// embedded below. Those pointers are the order's own stable position
// handle — the side queue never needs a separate node allocation to
// support O(1) removal.
type Order struct {
	ID        OrderID
	Side      Side
	Type      OrderType
	Price     Price
	Initial   Quantity
	Remaining Quantity

	next *Order
	prev *Order
}

// NewOrder builds an admitted-but-not-yet-inserted order. quantity becomes
// both the initial and remaining quantity.
func NewOrder(id OrderID, side Side, orderType OrderType, price Price, quantity Quantity) *Order {
	return &Order{
		ID:        id,
		Side:      side,
		Type:      orderType,
		Price:     price,
		Initial:   quantity,
		Remaining: quantity,
	}
}

// FilledQuantity returns how much of the order has executed so far.
func (o *Order) FilledQuantity() Quantity {
	return o.Initial - o.Remaining
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.Remaining == 0
}

// Fill applies a match of q units. It returns a FatalError, rather than
// mutating state inconsistently, if q exceeds what remains. The matching
// loop derives q as min(order.Remaining, counterparty.Remaining), so
// this is never reachable through the public API; call sites that would
// hit it treat it as an engine bug, not caller input.
func (o *Order) Fill(q Quantity) error {
	if q > o.Remaining {
		return &FatalError{
			Op:      "Order.Fill",
			Message: "fill quantity exceeds remaining quantity",
		}
	}
	o.Remaining -= q
	return nil
}

// reprice converts a market order to a good-till-cancel order resting at
// price, per the admission reprice rule. It is only ever called before
// the order is inserted into a side queue.
func (o *Order) reprice(price Price) {
	o.Price = price
	o.Type = GoodTillCancel
}
