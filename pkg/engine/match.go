package engine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/pvellanki/stockmatch/pkg/util"
)

// MatchSweep runs the matching algorithm once over every instrument, in
// ascending instrument-id order, and returns the trades produced by this
// invocation. Matching is on-demand only; nothing runs between sweeps.
//
// Each instrument gets at most one pairing per sweep. An instrument whose
// book is missing a side produces no trade and is skipped; the sweep carries
// on with the remaining instruments rather than aborting, so one quiet book
// cannot starve the rest of the venue.
//
// Only one book lock is held at a time, so a sweep never blocks operations on
// unrelated instruments. The context is checked between instruments; on
// cancellation the trades produced so far are returned.
func (r *Registry) MatchSweep(ctx context.Context) []Trade {
	trades := make([]Trade, 0)
	for _, id := range r.instrumentIDs() {
		select {
		case <-ctx.Done():
			r.log.Warn("sweep_cancelled",
				zap.Int64("instrument_id", id),
				zap.Int("trades", len(trades)))
			return trades
		default:
		}

		book, err := r.Book(id)
		if err != nil {
			continue
		}
		t, ok := book.matchOne(r.clock)
		if !ok {
			continue
		}
		r.recordTrade(t)
		trades = append(trades, t)
		r.log.Info("trade_executed",
			zap.Int64("instrument_id", t.InstrumentID),
			zap.String("buy_order_id", t.BuyOrderID),
			zap.String("sell_order_id", t.SellOrderID),
			zap.Float64("price", t.Price),
			zap.Int64("qty", t.Quantity))
	}
	r.log.Debug("sweep_complete", zap.Int("trades", len(trades)))
	return trades
}

// matchOne performs a single pairing for this book: the highest-priced
// resting sell against the lowest-priced resting buy. The whole step runs
// under the book lock so intake on the same instrument cannot interleave with
// the pop/reconcile/reinsert sequence.
//
// Pairing the highest sell against the lowest buy is the venue's historical
// crossing rule; it is deliberate, not a best-bid/best-ask convention.
func (b *OrderBook) matchOne(clock util.Clock) (Trade, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.sells) == 0 || len(b.buys) == 0 {
		return Trade{}, false
	}

	sell := b.popLocked(Sell, len(b.sells)-1)
	buy := b.popLocked(Buy, 0)

	now := clock.Now()
	qty := min(buy.RemainingQty, sell.RemainingQty)
	delta := buy.RemainingQty - sell.RemainingQty

	switch {
	case delta > 0:
		fill(sell, now)
		partialFill(buy, delta, now)
		b.insertLocked(buy)
	case delta < 0:
		fill(buy, now)
		partialFill(sell, -delta, now)
		b.insertLocked(sell)
	default:
		fill(buy, now)
		fill(sell, now)
	}

	// The executed price is the sell order's instrument reference price at
	// match time. Quantity is the amount actually exchanged, so an exactly
	// balanced pairing records its full size rather than zero.
	return Trade{
		InstrumentID: sell.Instrument.ID,
		BuyOrderID:   buy.ID,
		SellOrderID:  sell.ID,
		Price:        sell.Instrument.Price,
		Quantity:     qty,
		Timestamp:    now,
	}, true
}

// fill marks an order fully satisfied. A filled order has left its book for
// good and is never reinserted.
func fill(o *Order, now time.Time) {
	o.RemainingQty = 0
	o.Status = Filled
	o.Settled = now
	o.LastUpdate = now
}

// partialFill leaves the order open for future sweeps with the unexchanged
// remainder.
func partialFill(o *Order, remaining int64, now time.Time) {
	o.RemainingQty = remaining
	o.Status = PartialFill
	o.LastUpdate = now
}
