package engine

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pvellanki/stockmatch/pkg/util"
)

// Side of an order.
type Side int8

const (
	Buy  Side = 1
	Sell Side = 2
)

func (s Side) Valid() bool { return s == Buy || s == Sell }

func (s Side) String() string {
	switch s {
	case Buy:
		return "buy"
	case Sell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int8(s))
	}
}

// ParseSide converts a wire-level side string into a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// Status of an order's fill state.
type Status int8

const (
	Open Status = iota + 1
	Filled
	PartialFill
)

func (st Status) String() string {
	switch st {
	case Open:
		return "open"
	case Filled:
		return "filled"
	case PartialFill:
		return "partial_fill"
	default:
		return fmt.Sprintf("status(%d)", int8(st))
	}
}

// Order is a buy or sell request for a quantity of an instrument.
//
// OrderedQty is fixed at creation. RemainingQty starts equal to it and only
// decreases, and only inside a matching sweep. Settled is set exactly when
// Status becomes Filled; LastUpdate is stamped on every mutation.
type Order struct {
	Instrument Instrument

	// ID is the opaque unique identifier. Fingerprint is a content hash of
	// the creation-time fields, kept for audit and debugging only; it is
	// not unique and never used for identity.
	ID          string
	Fingerprint string

	OwnerID      string
	Side         Side
	OrderedQty   int64
	RemainingQty int64
	Status       Status

	Created    time.Time
	Settled    time.Time
	LastUpdate time.Time
}

// NewOrder validates the inputs and builds an Open order with a fresh unique
// id. The clock is injected so creation timestamps are testable; pass nil for
// wall-clock time.
func NewOrder(instr Instrument, qty int64, side Side, ownerID string, clock util.Clock) (*Order, error) {
	if clock == nil {
		clock = util.RealClock{}
	}
	if qty <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidQuantity, qty)
	}
	if !side.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidSide, int8(side))
	}

	now := clock.Now()
	o := &Order{
		Instrument:   instr,
		ID:           uuid.NewString(),
		OwnerID:      ownerID,
		Side:         side,
		OrderedQty:   qty,
		RemainingQty: qty,
		Status:       Open,
		Created:      now,
		LastUpdate:   now,
	}
	o.Fingerprint = fingerprint(instr.ID, qty, side, ownerID, now)
	return o, nil
}

// fingerprint hashes the creation-time fields. Two orders with identical
// fields created within the same clock reading share a fingerprint, which is
// exactly why it is not the identity.
func fingerprint(instrumentID, qty int64, side Side, ownerID string, created time.Time) string {
	h := sha256.Sum256([]byte(fmt.Sprintf("%d|%d|%d|%s|%d",
		instrumentID, qty, int8(side), ownerID, created.UnixNano())))
	return hex.EncodeToString(h[:])
}
