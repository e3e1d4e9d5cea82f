package match

// TradeLeg is one side of an executed trade. Price is that leg's own
// order's price, which need not equal the other leg's — a repriced
// market order, for instance, holds one fixed price across every trade
// in its matching pass while the resting orders it fills keep theirs.
type TradeLeg struct {
	OrderID  OrderID
	Price    Price
	Quantity Quantity
}

// Trade pairs the two legs of a single match. Bid.Quantity always equals
// Ask.Quantity; both equal the fill size actually applied.
type Trade struct {
	Bid TradeLeg
	Ask TradeLeg
}

// Trades is the ordered result of a matching pass. Nil or empty means no
// execution occurred.
type Trades []Trade
