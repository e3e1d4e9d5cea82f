// Package structure holds arena-backed price-level indices kept as a
// documented alternative to the production skiplist-based side queue
// (see ../queue.go). Benchmark tests compare their insert/search/delete/
// delete-min throughput against each other; the comparison against the
// production index (../queue_bench_test.go) covers insert only.
package structure

// PriceLevelTree is a left-leaning red-black tree over int32 price keys,
// backed by a pre-allocated node arena so insert/delete/search do not
// allocate on the hot path.
//
// Reference: Robert Sedgewick's LLRB implementation
// https://sedgewick.io/wp-content/themes/flavor/uploads/2016/02/LLRB.pdf

const (
	NullIndex  int32 = -1
	colorRed         = true
	colorBlack       = false
)

// PriceLevelNode is a node in the LLRB tree; each corresponds to one
// resting price level.
type PriceLevelNode struct {
	Left   int32
	Right  int32
	Parent int32
	Color  bool
	Price  int32
}

// PriceLevelTree is an arena-backed LLRB tree for price levels.
type PriceLevelTree struct {
	nodes    []PriceLevelNode
	root     int32
	freeHead int32
	count    int32
	minCache int32
}

// NewPriceLevelTree creates a new LLRB tree with pre-allocated capacity.
func NewPriceLevelTree(capacity int32) *PriceLevelTree {
	tree := &PriceLevelTree{
		nodes:    make([]PriceLevelNode, capacity),
		root:     NullIndex,
		freeHead: 0,
		minCache: NullIndex,
	}
	for i := int32(0); i < capacity-1; i++ {
		tree.nodes[i].Left = i + 1
	}
	tree.nodes[capacity-1].Left = NullIndex
	return tree
}

func (t *PriceLevelTree) alloc() int32 {
	if t.freeHead == NullIndex {
		panic("structure: PriceLevelTree arena exhausted")
	}
	idx := t.freeHead
	t.freeHead = t.nodes[idx].Left
	t.nodes[idx] = PriceLevelNode{Left: NullIndex, Right: NullIndex, Parent: NullIndex, Color: colorRed}
	return idx
}

func (t *PriceLevelTree) free(idx int32) {
	t.nodes[idx].Left = t.freeHead
	t.freeHead = idx
}

func (t *PriceLevelTree) isRed(idx int32) bool {
	if idx == NullIndex {
		return false
	}
	return t.nodes[idx].Color == colorRed
}

func (t *PriceLevelTree) rotateLeft(h int32) int32 {
	x := t.nodes[h].Right
	t.nodes[h].Right = t.nodes[x].Left
	if t.nodes[x].Left != NullIndex {
		t.nodes[t.nodes[x].Left].Parent = h
	}
	t.nodes[x].Left = h
	t.nodes[x].Color = t.nodes[h].Color
	t.nodes[h].Color = colorRed
	t.nodes[x].Parent = t.nodes[h].Parent
	t.nodes[h].Parent = x
	return x
}

func (t *PriceLevelTree) rotateRight(h int32) int32 {
	x := t.nodes[h].Left
	t.nodes[h].Left = t.nodes[x].Right
	if t.nodes[x].Right != NullIndex {
		t.nodes[t.nodes[x].Right].Parent = h
	}
	t.nodes[x].Right = h
	t.nodes[x].Color = t.nodes[h].Color
	t.nodes[h].Color = colorRed
	t.nodes[x].Parent = t.nodes[h].Parent
	t.nodes[h].Parent = x
	return x
}

func (t *PriceLevelTree) flipColors(h int32) {
	t.nodes[h].Color = !t.nodes[h].Color
	t.nodes[t.nodes[h].Left].Color = !t.nodes[t.nodes[h].Left].Color
	t.nodes[t.nodes[h].Right].Color = !t.nodes[t.nodes[h].Right].Color
}

// Insert inserts price into the tree. Returns true if newly inserted.
func (t *PriceLevelTree) Insert(price int32) bool {
	var inserted bool
	t.root, inserted = t.insert(t.root, NullIndex, price)
	t.nodes[t.root].Color = colorBlack
	if inserted {
		t.count++
		if t.minCache == NullIndex || price < t.nodes[t.minCache].Price {
			t.minCache = t.findMin(t.root)
		}
	}
	return inserted
}

func (t *PriceLevelTree) insert(h int32, parent int32, price int32) (int32, bool) {
	if h == NullIndex {
		idx := t.alloc()
		t.nodes[idx].Price = price
		t.nodes[idx].Parent = parent
		return idx, true
	}

	var inserted bool
	switch {
	case price < t.nodes[h].Price:
		t.nodes[h].Left, inserted = t.insert(t.nodes[h].Left, h, price)
	case price > t.nodes[h].Price:
		t.nodes[h].Right, inserted = t.insert(t.nodes[h].Right, h, price)
	default:
		return h, false
	}

	if t.isRed(t.nodes[h].Right) && !t.isRed(t.nodes[h].Left) {
		h = t.rotateLeft(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.rotateRight(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[h].Right) {
		t.flipColors(h)
	}

	return h, inserted
}

// Contains reports whether price exists in the tree.
func (t *PriceLevelTree) Contains(price int32) bool {
	return t.search(t.root, price) != NullIndex
}

func (t *PriceLevelTree) search(h int32, price int32) int32 {
	for h != NullIndex {
		switch {
		case price < t.nodes[h].Price:
			h = t.nodes[h].Left
		case price > t.nodes[h].Price:
			h = t.nodes[h].Right
		default:
			return h
		}
	}
	return NullIndex
}

// Min returns the minimum price in the tree.
func (t *PriceLevelTree) Min() (int32, bool) {
	if t.minCache == NullIndex {
		return 0, false
	}
	return t.nodes[t.minCache].Price, true
}

func (t *PriceLevelTree) findMin(h int32) int32 {
	if h == NullIndex {
		return NullIndex
	}
	for t.nodes[h].Left != NullIndex {
		h = t.nodes[h].Left
	}
	return h
}

// Max returns the maximum price in the tree.
func (t *PriceLevelTree) Max() (int32, bool) {
	if t.root == NullIndex {
		return 0, false
	}
	h := t.root
	for t.nodes[h].Right != NullIndex {
		h = t.nodes[h].Right
	}
	return t.nodes[h].Price, true
}

// Count returns the number of price levels held.
func (t *PriceLevelTree) Count() int32 {
	return t.count
}

// Successor returns the next larger price after price, if any.
func (t *PriceLevelTree) Successor(price int32) (int32, bool) {
	idx := t.search(t.root, price)
	if idx == NullIndex {
		return 0, false
	}
	succIdx := t.successor(idx)
	if succIdx == NullIndex {
		return 0, false
	}
	return t.nodes[succIdx].Price, true
}

func (t *PriceLevelTree) successor(idx int32) int32 {
	node := &t.nodes[idx]
	if node.Right != NullIndex {
		return t.findMin(node.Right)
	}
	parent := node.Parent
	for parent != NullIndex && idx == t.nodes[parent].Right {
		idx = parent
		parent = t.nodes[parent].Parent
	}
	return parent
}

// Delete removes price from the tree. Returns true if it was present.
func (t *PriceLevelTree) Delete(price int32) bool {
	if t.root == NullIndex {
		return false
	}

	needUpdateMin := t.minCache != NullIndex && t.nodes[t.minCache].Price == price

	var found bool
	if !t.isRed(t.nodes[t.root].Left) && !t.isRed(t.nodes[t.root].Right) {
		t.nodes[t.root].Color = colorRed
	}
	t.root, found = t.deleteWithFlag(t.root, price)
	if !found {
		if t.root != NullIndex {
			t.nodes[t.root].Color = colorBlack
		}
		return false
	}

	if t.root != NullIndex {
		t.nodes[t.root].Color = colorBlack
		t.nodes[t.root].Parent = NullIndex
	}
	t.count--

	if needUpdateMin {
		t.minCache = t.findMin(t.root)
	}

	return true
}

func (t *PriceLevelTree) deleteWithFlag(h int32, price int32) (int32, bool) {
	if h == NullIndex {
		return NullIndex, false
	}

	var found bool
	if price < t.nodes[h].Price {
		if t.nodes[h].Left == NullIndex {
			return h, false
		}
		if !t.isRed(t.nodes[h].Left) && !t.isRed(t.nodes[t.nodes[h].Left].Left) {
			h = t.moveRedLeft(h)
		}
		t.nodes[h].Left, found = t.deleteWithFlag(t.nodes[h].Left, price)
	} else {
		if t.isRed(t.nodes[h].Left) {
			h = t.rotateRight(h)
		}
		if price == t.nodes[h].Price && t.nodes[h].Right == NullIndex {
			t.free(h)
			return NullIndex, true
		}
		if t.nodes[h].Right == NullIndex {
			return h, false
		}
		if !t.isRed(t.nodes[h].Right) && !t.isRed(t.nodes[t.nodes[h].Right].Left) {
			h = t.moveRedRight(h)
		}
		if price == t.nodes[h].Price {
			minIdx := t.findMin(t.nodes[h].Right)
			t.nodes[h].Price = t.nodes[minIdx].Price
			t.nodes[h].Right = t.deleteMin(t.nodes[h].Right)
			found = true
		} else {
			t.nodes[h].Right, found = t.deleteWithFlag(t.nodes[h].Right, price)
		}
	}
	return t.balance(h), found
}

func (t *PriceLevelTree) moveRedLeft(h int32) int32 {
	t.flipColors(h)
	if t.isRed(t.nodes[t.nodes[h].Right].Left) {
		t.nodes[h].Right = t.rotateRight(t.nodes[h].Right)
		h = t.rotateLeft(h)
		t.flipColors(h)
	}
	return h
}

func (t *PriceLevelTree) moveRedRight(h int32) int32 {
	t.flipColors(h)
	if t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.rotateRight(h)
		t.flipColors(h)
	}
	return h
}

func (t *PriceLevelTree) deleteMin(h int32) int32 {
	if t.nodes[h].Left == NullIndex {
		t.free(h)
		return NullIndex
	}
	if !t.isRed(t.nodes[h].Left) && !t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.moveRedLeft(h)
	}
	t.nodes[h].Left = t.deleteMin(t.nodes[h].Left)
	return t.balance(h)
}

func (t *PriceLevelTree) balance(h int32) int32 {
	if t.isRed(t.nodes[h].Right) && !t.isRed(t.nodes[h].Left) {
		h = t.rotateLeft(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[t.nodes[h].Left].Left) {
		h = t.rotateRight(h)
	}
	if t.isRed(t.nodes[h].Left) && t.isRed(t.nodes[h].Right) {
		t.flipColors(h)
	}
	return h
}

// DeleteMin removes and returns the minimum price.
func (t *PriceLevelTree) DeleteMin() (int32, bool) {
	if t.root == NullIndex {
		return 0, false
	}
	minPrice := t.nodes[t.minCache].Price

	if !t.isRed(t.nodes[t.root].Left) && !t.isRed(t.nodes[t.root].Right) {
		t.nodes[t.root].Color = colorRed
	}
	t.root = t.deleteMin(t.root)
	if t.root != NullIndex {
		t.nodes[t.root].Color = colorBlack
		t.nodes[t.root].Parent = NullIndex
	}
	t.count--
	t.minCache = t.findMin(t.root)

	return minPrice, true
}

// InOrderSlice returns all prices in ascending order.
func (t *PriceLevelTree) InOrderSlice() []int32 {
	result := make([]int32, 0, t.count)
	t.inOrder(t.root, &result)
	return result
}

func (t *PriceLevelTree) inOrder(h int32, result *[]int32) {
	if h == NullIndex {
		return
	}
	t.inOrder(t.nodes[h].Left, result)
	*result = append(*result, t.nodes[h].Price)
	t.inOrder(t.nodes[h].Right, result)
}
