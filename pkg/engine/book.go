package engine

import (
	"fmt"
	"sort"
	"sync"
)

// OrderBook holds the resting orders for one instrument: a buy side and a
// sell side, each kept sorted ascending by instrument reference price at all
// times, including after partial-fill re-insertion.
//
// The mutex guards both sides and is held for the whole of any insert, pop or
// sweep-pairing step, so operations on one instrument are linearized while
// distinct instruments proceed in parallel.
//
// The book offers no id lookup and no cancel; intake-level concerns such as
// duplicate ids are handled by the registry.
type OrderBook struct {
	mu    sync.RWMutex
	buys  []*Order
	sells []*Order
}

func NewOrderBook() *OrderBook {
	return &OrderBook{}
}

// Insert places the order on its side, keyed by instrument price. O(log n)
// position search, O(n) shift.
func (b *OrderBook) Insert(o *Order) error {
	if !o.Side.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSide, int8(o.Side))
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.insertLocked(o)
	return nil
}

// PopLowest removes and returns the lowest-priced order on the given side.
func (b *OrderBook) PopLowest(side Side) (*Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.sideLocked(side)
	if len(*s) == 0 {
		return nil, fmt.Errorf("%w: %s side", ErrEmptyBook, side)
	}
	return b.popLocked(side, 0), nil
}

// PopHighest removes and returns the highest-priced order on the given side.
func (b *OrderBook) PopHighest(side Side) (*Order, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	s := b.sideLocked(side)
	if len(*s) == 0 {
		return nil, fmt.Errorf("%w: %s side", ErrEmptyBook, side)
	}
	return b.popLocked(side, len(*s)-1), nil
}

// BuyOrders returns a snapshot of the buy side, ascending by price. Orders
// are copied by value so readers never share fill state with a running sweep.
func (b *OrderBook) BuyOrders() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyOrders(b.buys)
}

// SellOrders returns a snapshot of the sell side, ascending by price, copied
// like BuyOrders.
func (b *OrderBook) SellOrders() []Order {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyOrders(b.sells)
}

// Snapshot copies both sides under a single lock acquisition, so the pair is
// one untorn view of the book: no pairing can land between the two sides.
func (b *OrderBook) Snapshot() (buys, sells []Order) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return copyOrders(b.buys), copyOrders(b.sells)
}

// copyOrders dereferences into value copies. Callers hold the lock.
func copyOrders(src []*Order) []Order {
	out := make([]Order, len(src))
	for i, o := range src {
		out[i] = *o
	}
	return out
}

// Len reports the number of resting orders on one side.
func (b *OrderBook) Len(side Side) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(*b.sideLocked(side))
}

// sideLocked returns the slice for a side. Callers hold the lock and have
// already validated the side.
func (b *OrderBook) sideLocked(side Side) *[]*Order {
	if side == Buy {
		return &b.buys
	}
	return &b.sells
}

// insertLocked places o after any resting orders with an equal price key, so
// orders at the same price keep arrival order. Price is the only sort key;
// there is no explicit time-priority field.
func (b *OrderBook) insertLocked(o *Order) {
	s := b.sideLocked(o.Side)
	i := sort.Search(len(*s), func(i int) bool {
		return (*s)[i].Instrument.Price > o.Instrument.Price
	})
	*s = append(*s, nil)
	copy((*s)[i+1:], (*s)[i:])
	(*s)[i] = o
}

func (b *OrderBook) popLocked(side Side, i int) *Order {
	s := b.sideLocked(side)
	o := (*s)[i]
	*s = append((*s)[:i], (*s)[i+1:]...)
	return o
}
