package engine

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/pvellanki/stockmatch/pkg/util"
)

// DefaultTradeHistory bounds the in-memory ring of recent trades kept for the
// audit feed. Trades are not persisted anywhere.
const DefaultTradeHistory = 512

// Registry routes orders to per-instrument books and orchestrates matching
// sweeps. Books are created lazily on the first order for an instrument and
// never deleted.
//
// The registry mutex guards the instrument map, the seen-id set and the trade
// ring; each book carries its own lock, so cross-instrument operations do not
// contend.
type Registry struct {
	mu    sync.RWMutex
	books map[int64]*OrderBook

	// Every order id ever inserted, for duplicate detection across the
	// registry's lifetime. Filled orders stay in the set.
	seen map[string]struct{}

	trades   []Trade
	tradeCap int

	clock util.Clock
	log   *zap.Logger
}

// NewRegistry builds an empty registry. Both arguments may be nil: logging
// falls back to a no-op logger and time to the wall clock.
func NewRegistry(logger *zap.Logger, clock util.Clock) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = util.RealClock{}
	}
	return &Registry{
		books:    make(map[int64]*OrderBook),
		seen:     make(map[string]struct{}),
		tradeCap: DefaultTradeHistory,
		clock:    clock,
		log:      logger,
	}
}

// SetTradeHistory resizes the recent-trade ring. Call before serving traffic.
func (r *Registry) SetTradeHistory(n int) {
	if n <= 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tradeCap = n
	if len(r.trades) > n {
		r.trades = append([]Trade(nil), r.trades[len(r.trades)-n:]...)
	}
}

// AddOrder routes the order to its instrument's book, creating the book if
// this is the instrument's first order. It returns a human-readable
// confirmation on success. A bad side or a duplicate id is reported as an
// error value and leaves the registry unchanged; intake never panics.
func (r *Registry) AddOrder(o *Order) (string, error) {
	if o == nil {
		return "", errors.New("nil order")
	}
	if !o.Side.Valid() {
		r.log.Warn("order_rejected",
			zap.String("reason", "invalid_side"),
			zap.Int8("side", int8(o.Side)),
			zap.Int64("instrument_id", o.Instrument.ID))
		return "", fmt.Errorf("%w: received %d", ErrInvalidSide, int8(o.Side))
	}

	r.mu.Lock()
	if _, dup := r.seen[o.ID]; dup {
		r.mu.Unlock()
		r.log.Warn("order_rejected",
			zap.String("reason", "duplicate_id"),
			zap.String("order_id", o.ID))
		return "", fmt.Errorf("%w: %s", ErrDuplicateOrderID, o.ID)
	}
	r.seen[o.ID] = struct{}{}
	book, ok := r.books[o.Instrument.ID]
	if !ok {
		book = NewOrderBook()
		r.books[o.Instrument.ID] = book
	}
	r.mu.Unlock()

	if err := book.Insert(o); err != nil {
		return "", err
	}

	r.log.Debug("order_added",
		zap.String("order_id", o.ID),
		zap.Int64("instrument_id", o.Instrument.ID),
		zap.String("side", o.Side.String()),
		zap.Int64("qty", o.OrderedQty))

	if o.Side == Buy {
		return "Purchase order successfully added", nil
	}
	return "Sale order successfully added", nil
}

// Book returns the order book for an instrument, or ErrBookNotFound if the
// instrument has never received an order.
func (r *Registry) Book(instrumentID int64) (*OrderBook, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	book, ok := r.books[instrumentID]
	if !ok {
		return nil, fmt.Errorf("%w: instrument %d", ErrBookNotFound, instrumentID)
	}
	return book, nil
}

// Snapshot returns a copy of the instrument-to-book mapping. The map is
// copied; the books are shared and guard their own state.
func (r *Registry) Snapshot() map[int64]*OrderBook {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[int64]*OrderBook, len(r.books))
	for id, book := range r.books {
		out[id] = book
	}
	return out
}

// RecentTrades returns the trade ring, most recent first.
func (r *Registry) RecentTrades() []Trade {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Trade, len(r.trades))
	for i, t := range r.trades {
		out[len(r.trades)-1-i] = t
	}
	return out
}

func (r *Registry) recordTrade(t Trade) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.trades) >= r.tradeCap {
		copy(r.trades, r.trades[1:])
		r.trades = r.trades[:len(r.trades)-1]
	}
	r.trades = append(r.trades, t)
}

// instrumentIDs returns all registered instrument ids ascending, so sweep
// order is deterministic across runs.
func (r *Registry) instrumentIDs() []int64 {
	r.mu.RLock()
	ids := make([]int64, 0, len(r.books))
	for id := range r.books {
		ids = append(ids, id)
	}
	r.mu.RUnlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
