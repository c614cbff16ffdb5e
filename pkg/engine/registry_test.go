package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddOrderValid(t *testing.T) {
	clock := newFakeClock()
	reg := NewRegistry(nil, clock)
	instr := Instrument{ID: 7, Name: "ACME", Price: 12.5}

	tests := []struct {
		name    string
		side    Side
		wantMsg string
	}{
		{name: "buy", side: Buy, wantMsg: "Purchase order successfully added"},
		{name: "sell", side: Sell, wantMsg: "Sale order successfully added"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := mustOrder(t, instr, 4, tt.side, "alice", clock)
			msg, err := reg.AddOrder(o)
			require.NoError(t, err)
			assert.Equal(t, tt.wantMsg, msg)

			book, err := reg.Book(instr.ID)
			require.NoError(t, err)
			assert.Equal(t, 1, book.Len(tt.side))

			var resting Order
			if tt.side == Buy {
				resting = book.BuyOrders()[0]
			} else {
				resting = book.SellOrders()[0]
			}
			assert.Equal(t, o.ID, resting.ID)
			assert.Equal(t, Open, resting.Status)
			assert.Equal(t, resting.OrderedQty, resting.RemainingQty)
		})
	}
}

// An unrecognized side is reported as a value, never a panic, and leaves the
// registry untouched: no book is created.
func TestAddOrderInvalidSide(t *testing.T) {
	reg := NewRegistry(nil, newFakeClock())

	o := &Order{
		Instrument:   Instrument{ID: 3, Name: "ACME", Price: 5},
		ID:           "hand-built",
		Side:         7,
		OrderedQty:   1,
		RemainingQty: 1,
		Status:       Open,
	}

	_, err := reg.AddOrder(o)
	require.ErrorIs(t, err, ErrInvalidSide)
	assert.Empty(t, reg.Snapshot(), "no book may be created for a rejected order")

	_, err = reg.Book(3)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestAddOrderDuplicateID(t *testing.T) {
	clock := newFakeClock()
	reg := NewRegistry(nil, clock)
	instr := Instrument{ID: 1, Name: "ACME", Price: 8}

	o := mustOrder(t, instr, 2, Buy, "alice", clock)
	_, err := reg.AddOrder(o)
	require.NoError(t, err)

	// Same id again, even on a different instrument, is rejected.
	dup := mustOrder(t, Instrument{ID: 2, Name: "OTHR", Price: 9}, 3, Sell, "bob", clock)
	dup.ID = o.ID
	_, err = reg.AddOrder(dup)
	require.ErrorIs(t, err, ErrDuplicateOrderID)

	book, err := reg.Book(1)
	require.NoError(t, err)
	assert.Equal(t, 1, book.Len(Buy))
	_, err = reg.Book(2)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestBookNotFound(t *testing.T) {
	reg := NewRegistry(nil, nil)
	_, err := reg.Book(99)
	require.ErrorIs(t, err, ErrBookNotFound)
}

func TestSnapshotSharesBooks(t *testing.T) {
	clock := newFakeClock()
	reg := NewRegistry(nil, clock)

	for id := int64(1); id <= 3; id++ {
		instr := Instrument{ID: id, Name: "ACME", Price: float64(id)}
		_, err := reg.AddOrder(mustOrder(t, instr, 1, Buy, "alice", clock))
		require.NoError(t, err)
	}

	snapshot := reg.Snapshot()
	require.Len(t, snapshot, 3)
	for id := int64(1); id <= 3; id++ {
		require.Contains(t, snapshot, id)
		assert.Equal(t, 1, snapshot[id].Len(Buy))
	}
}

func TestRecentTradesRing(t *testing.T) {
	clock := newFakeClock()
	reg := NewRegistry(nil, clock)
	reg.SetTradeHistory(2)

	// Three sweeps, one trade each.
	for i := 0; i < 3; i++ {
		price := float64(10 + i)
		instr := Instrument{ID: 1, Name: "ACME", Price: price}
		_, err := reg.AddOrder(mustOrder(t, instr, 1, Buy, "alice", clock))
		require.NoError(t, err)
		_, err = reg.AddOrder(mustOrder(t, instr, 1, Sell, "bob", clock))
		require.NoError(t, err)

		trades := reg.MatchSweep(context.Background())
		require.Len(t, trades, 1)
		clock.Advance(time.Second)
	}

	recent := reg.RecentTrades()
	require.Len(t, recent, 2, "ring must hold only the configured depth")
	// Most recent first.
	assert.Equal(t, 12.0, recent[0].Price)
	assert.Equal(t, 11.0, recent[1].Price)
}
