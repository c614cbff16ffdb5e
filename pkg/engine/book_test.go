package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedAscending(orders []Order) bool {
	for i := 1; i < len(orders); i++ {
		if orders[i-1].Instrument.Price > orders[i].Instrument.Price {
			return false
		}
	}
	return true
}

func TestInsertKeepsSidesSorted(t *testing.T) {
	clock := newFakeClock()
	book := NewOrderBook()

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 200; i++ {
		price := float64(rng.Intn(1000)) / 4
		side := Buy
		if i%2 == 1 {
			side = Sell
		}
		instr := Instrument{ID: 1, Name: "ACME", Price: price}
		require.NoError(t, book.Insert(mustOrder(t, instr, 1, side, "owner", clock)))
	}

	assert.Equal(t, 100, book.Len(Buy))
	assert.Equal(t, 100, book.Len(Sell))
	assert.True(t, sortedAscending(book.BuyOrders()), "buy side out of order")
	assert.True(t, sortedAscending(book.SellOrders()), "sell side out of order")
}

func TestPopExtremes(t *testing.T) {
	clock := newFakeClock()
	book := NewOrderBook()

	for _, price := range []float64{30, 10, 20} {
		instr := Instrument{ID: 1, Name: "ACME", Price: price}
		require.NoError(t, book.Insert(mustOrder(t, instr, 1, Sell, "owner", clock)))
	}

	highest, err := book.PopHighest(Sell)
	require.NoError(t, err)
	assert.Equal(t, 30.0, highest.Instrument.Price)

	lowest, err := book.PopLowest(Sell)
	require.NoError(t, err)
	assert.Equal(t, 10.0, lowest.Instrument.Price)

	assert.Equal(t, 1, book.Len(Sell))
}

func TestPopEmptySide(t *testing.T) {
	book := NewOrderBook()

	_, err := book.PopLowest(Buy)
	require.ErrorIs(t, err, ErrEmptyBook)

	_, err = book.PopHighest(Sell)
	require.ErrorIs(t, err, ErrEmptyBook)
}

// Orders at the same price key keep arrival order; price is the only sort
// key.
func TestEqualPriceKeepsArrivalOrder(t *testing.T) {
	clock := newFakeClock()
	book := NewOrderBook()
	instr := Instrument{ID: 1, Name: "ACME", Price: 15}

	first := mustOrder(t, instr, 1, Buy, "first", clock)
	second := mustOrder(t, instr, 1, Buy, "second", clock)
	require.NoError(t, book.Insert(first))
	require.NoError(t, book.Insert(second))

	buys := book.BuyOrders()
	require.Len(t, buys, 2)
	assert.Equal(t, first.ID, buys[0].ID)
	assert.Equal(t, second.ID, buys[1].ID)
}

// Snapshot accessors hand out value copies: mutating what they return must
// not touch the resting order, and later fills must not show through a copy
// taken earlier.
func TestSnapshotReturnsCopies(t *testing.T) {
	clock := newFakeClock()
	book := NewOrderBook()
	instr := Instrument{ID: 1, Name: "ACME", Price: 15}
	require.NoError(t, book.Insert(mustOrder(t, instr, 4, Buy, "alice", clock)))

	buys := book.BuyOrders()
	require.Len(t, buys, 1)
	buys[0].RemainingQty = 1
	buys[0].Status = Filled

	reread := book.BuyOrders()
	require.Len(t, reread, 1)
	assert.Equal(t, int64(4), reread[0].RemainingQty)
	assert.Equal(t, Open, reread[0].Status)

	snapBuys, snapSells := book.Snapshot()
	require.Len(t, snapBuys, 1)
	assert.Empty(t, snapSells)
	assert.Equal(t, int64(4), snapBuys[0].RemainingQty)
}

func TestInsertInvalidSide(t *testing.T) {
	book := NewOrderBook()
	err := book.Insert(&Order{Side: 9})
	require.ErrorIs(t, err, ErrInvalidSide)
	assert.Equal(t, 0, book.Len(Buy))
	assert.Equal(t, 0, book.Len(Sell))
}
