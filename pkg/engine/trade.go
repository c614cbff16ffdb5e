package engine

import "time"

// Trade is an immutable audit record of one matched exchange between a buy
// order and a sell order. Price is the matched sell order's instrument
// reference price at match time; Quantity is the amount actually exchanged.
type Trade struct {
	InstrumentID int64
	BuyOrderID   string
	SellOrderID  string
	Price        float64
	Quantity     int64
	Timestamp    time.Time
}
