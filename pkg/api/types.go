package api

// Request and response types for the REST endpoints and WebSocket messages.

// ==============================
// REST Request Types
// ==============================

// InstrumentPayload describes the instrument an order refers to. The price is
// the reference price carried by this order; it becomes the execution price
// when the order is matched as the sell leg.
type InstrumentPayload struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CreateOrderRequest is the payload for POST /api/v1/orders.
type CreateOrderRequest struct {
	Instrument InstrumentPayload `json:"instrument"`
	Quantity   int64             `json:"quantity"`
	Side       string            `json:"side"` // "buy" or "sell"
	OwnerID    string            `json:"ownerId"`
}

// ==============================
// REST Response Types
// ==============================

// CreateOrderResponse is returned with 201 on successful intake.
type CreateOrderResponse struct {
	OrderID string `json:"orderId"`
	Message string `json:"message"`
}

// OrderInfo represents one resting or settled order.
type OrderInfo struct {
	ID           string            `json:"id"`
	Fingerprint  string            `json:"fingerprint,omitempty"`
	Instrument   InstrumentPayload `json:"instrument"`
	Side         string            `json:"side"`
	OwnerID      string            `json:"ownerId"`
	OrderedQty   int64             `json:"orderedQuantity"`
	RemainingQty int64             `json:"remainingQuantity"`
	Status       string            `json:"status"`
	Created      string            `json:"created"`
	Settled      string            `json:"settled,omitempty"`
	LastUpdate   string            `json:"lastStatusUpdate"`
}

// OrderBookSnapshot is one instrument's book: both sides ascending by the
// orders' instrument reference price.
type OrderBookSnapshot struct {
	InstrumentID int64       `json:"instrumentId"`
	BuyOrders    []OrderInfo `json:"buyOrders"`
	SellOrders   []OrderInfo `json:"sellOrders"`
	Timestamp    int64       `json:"timestamp"` // Unix milliseconds
}

// RegistrySnapshot is the full instrument-id-to-book mapping.
type RegistrySnapshot struct {
	Books map[int64]OrderBookSnapshot `json:"books"`
}

// TradeInfo represents one executed trade.
type TradeInfo struct {
	InstrumentID int64   `json:"instrumentId"`
	BuyOrderID   string  `json:"buyOrderId"`
	SellOrderID  string  `json:"sellOrderId"`
	Price        float64 `json:"price"`
	Quantity     int64   `json:"quantity"`
	Timestamp    int64   `json:"timestamp"` // Unix milliseconds
}

// ErrorResponse is returned for all errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ==============================
// WebSocket Message Types
// ==============================

// WSSubscribeRequest is sent by a client to manage channel subscriptions.
// Channels: "trades" (all instruments) or "trades:<instrumentID>".
type WSSubscribeRequest struct {
	Op       string   `json:"op"` // "subscribe" or "unsubscribe"
	Channels []string `json:"channels"`
}

// TradeUpdate is broadcast to subscribed clients when a sweep executes a
// trade.
type TradeUpdate struct {
	Type         string  `json:"type"` // "trade"
	InstrumentID int64   `json:"instrumentId"`
	BuyOrderID   string  `json:"buyOrderId"`
	SellOrderID  string  `json:"sellOrderId"`
	Price        float64 `json:"price"`
	Quantity     int64   `json:"quantity"`
	Timestamp    int64   `json:"timestamp"`
}
