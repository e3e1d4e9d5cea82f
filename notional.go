package match

import "github.com/shopspring/decimal"

// Notional returns price * quantity as an exact decimal. Trade legs only
// carry integer ticks and lots; anything that reports money rather than
// ticks — logs, published metrics — goes through this rather than raw
// integer multiplication, since the scale factor between ticks and
// currency units lives outside the book.
func Notional(price Price, quantity Quantity) decimal.Decimal {
	return decimal.NewFromInt(int64(price)).Mul(decimal.NewFromInt(int64(quantity)))
}
