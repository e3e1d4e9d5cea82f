package match

import (
	"math/rand"
	"testing"

	"github.com/go-oms/matchcore/structure"
)

// BenchmarkSideQueue_Insert exercises the production per-side queue, for
// comparison against structure.PriceLevelTree/PooledSkiplist in
// structure's own benchmark file.
func BenchmarkSideQueue_Insert(b *testing.B) {
	prices := make([]Price, b.N)
	rng := rand.New(rand.NewSource(1))
	for i := range prices {
		prices[i] = Price(rng.Int31n(100000))
	}

	q := newSideQueue(Buy)
	orders := make([]*Order, b.N)
	for i := range orders {
		orders[i] = NewOrder(OrderID(i), Buy, GoodTillCancel, prices[i], 1)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.insert(orders[i])
	}
}

func BenchmarkSideQueue_BestPrice(b *testing.B) {
	q := newSideQueue(Buy)
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10000; i++ {
		q.insert(NewOrder(OrderID(i), Buy, GoodTillCancel, Price(rng.Int31n(100000)), 1))
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		q.bestPrice()
	}
}

// BenchmarkPriceLevelTree_InsertComparable and
// BenchmarkPooledSkiplist_InsertComparable give a same-shot comparison
// point against the structure package's arena-backed alternatives.
func BenchmarkPriceLevelTree_InsertComparable(b *testing.B) {
	tree := structure.NewPriceLevelTree(int32(b.N) + 1)
	rng := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		tree.Insert(rng.Int31n(100000))
	}
}

func BenchmarkPooledSkiplist_InsertComparable(b *testing.B) {
	sl := structure.NewPooledSkiplist(int32(b.N)+1, 1)
	rng := rand.New(rand.NewSource(1))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		sl.MustInsert(rng.Int31n(100000))
	}
}
