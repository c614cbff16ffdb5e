package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/pvellanki/stockmatch/params"
	"github.com/pvellanki/stockmatch/pkg/engine"
	"github.com/pvellanki/stockmatch/pkg/util"
)

// Server fronts the matching engine with a REST API and a WebSocket trade
// feed. Wire encoding lives here; the engine deals only in its own types.
type Server struct {
	reg    *engine.Registry
	router *mux.Router
	hub    *Hub
	cfg    params.API
	log    *zap.SugaredLogger
	clock  util.Clock
}

// NewServer wires routes for the given registry. A nil logger falls back to a
// no-op logger, a nil clock to the wall clock.
func NewServer(reg *engine.Registry, cfg params.API, logger *zap.SugaredLogger, clock util.Clock) *Server {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	if clock == nil {
		clock = util.RealClock{}
	}
	s := &Server{
		reg:    reg,
		router: mux.NewRouter(),
		hub:    NewHub(logger),
		cfg:    cfg,
		log:    logger,
		clock:  clock,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()

	api.HandleFunc("/orders", s.handleCreateOrder).Methods("POST")
	api.HandleFunc("/instruments/{id}/book", s.handleGetOrderBook).Methods("GET")
	api.HandleFunc("/books", s.handleGetRegistry).Methods("GET")
	api.HandleFunc("/sweep", s.handleMatchSweep).Methods("POST")
	api.HandleFunc("/trades", s.handleGetTrades).Methods("GET")

	s.router.HandleFunc("/ws", s.handleWebSocket)
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start runs the WebSocket hub and serves HTTP on addr. Blocks until the
// listener fails.
func (s *Server) Start(addr string) error {
	go s.hub.Run()

	c := cors.New(cors.Options{
		AllowedOrigins:   s.cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	s.log.Infow("api_server_starting", "addr", addr)
	return http.ListenAndServe(addr, c.Handler(s.router))
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler { return s.router }

// ==============================
// REST Handlers
// ==============================

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req CreateOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	side, err := engine.ParseSide(req.Side)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid side", err.Error())
		return
	}

	instr := engine.Instrument{
		ID:    req.Instrument.ID,
		Name:  req.Instrument.Name,
		Price: req.Instrument.Price,
	}
	order, err := engine.NewOrder(instr, req.Quantity, side, req.OwnerID, s.clock)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid order", err.Error())
		return
	}

	msg, err := s.reg.AddOrder(order)
	if err != nil {
		respondError(w, http.StatusBadRequest, "order rejected", err.Error())
		return
	}

	s.log.Infow("order_created",
		"order_id", order.ID,
		"instrument_id", instr.ID,
		"side", side.String(),
		"qty", req.Quantity)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(CreateOrderResponse{OrderID: order.ID, Message: msg})
}

func (s *Server) handleGetOrderBook(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid instrument id", err.Error())
		return
	}

	book, err := s.reg.Book(id)
	if err != nil {
		if errors.Is(err, engine.ErrBookNotFound) {
			respondError(w, http.StatusNotFound, "order book not found", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "lookup failed", err.Error())
		return
	}

	respondJSON(w, s.bookSnapshot(id, book))
}

func (s *Server) handleGetRegistry(w http.ResponseWriter, r *http.Request) {
	snapshot := s.reg.Snapshot()
	resp := RegistrySnapshot{Books: make(map[int64]OrderBookSnapshot, len(snapshot))}
	for id, book := range snapshot {
		resp.Books[id] = s.bookSnapshot(id, book)
	}
	respondJSON(w, resp)
}

func (s *Server) handleMatchSweep(w http.ResponseWriter, r *http.Request) {
	trades := s.reg.MatchSweep(r.Context())

	resp := make([]TradeInfo, len(trades))
	for i, t := range trades {
		resp[i] = tradeInfo(t)
		s.hub.BroadcastTrade(t)
	}

	s.log.Infow("sweep_requested", "trades", len(trades))
	respondJSON(w, resp)
}

func (s *Server) handleGetTrades(w http.ResponseWriter, r *http.Request) {
	trades := s.reg.RecentTrades()
	resp := make([]TradeInfo, len(trades))
	for i, t := range trades {
		resp[i] = tradeInfo(t)
	}
	respondJSON(w, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, map[string]string{"status": "ok"})
}

// ==============================
// Mapping Helpers
// ==============================

func (s *Server) bookSnapshot(id int64, book *engine.OrderBook) OrderBookSnapshot {
	// Both sides come from one lock acquisition so the rendered book cannot
	// mix state from before and after a pairing.
	buys, sells := book.Snapshot()
	return OrderBookSnapshot{
		InstrumentID: id,
		BuyOrders:    orderInfos(buys),
		SellOrders:   orderInfos(sells),
		Timestamp:    s.clock.Now().UnixMilli(),
	}
}

func orderInfos(orders []engine.Order) []OrderInfo {
	out := make([]OrderInfo, len(orders))
	for i, o := range orders {
		out[i] = orderInfo(o)
	}
	return out
}

func orderInfo(o engine.Order) OrderInfo {
	info := OrderInfo{
		ID:          o.ID,
		Fingerprint: o.Fingerprint,
		Instrument: InstrumentPayload{
			ID:    o.Instrument.ID,
			Name:  o.Instrument.Name,
			Price: o.Instrument.Price,
		},
		Side:         o.Side.String(),
		OwnerID:      o.OwnerID,
		OrderedQty:   o.OrderedQty,
		RemainingQty: o.RemainingQty,
		Status:       o.Status.String(),
		Created:      o.Created.Format(time.RFC3339Nano),
		LastUpdate:   o.LastUpdate.Format(time.RFC3339Nano),
	}
	if !o.Settled.IsZero() {
		info.Settled = o.Settled.Format(time.RFC3339Nano)
	}
	return info
}

func tradeInfo(t engine.Trade) TradeInfo {
	return TradeInfo{
		InstrumentID: t.InstrumentID,
		BuyOrderID:   t.BuyOrderID,
		SellOrderID:  t.SellOrderID,
		Price:        t.Price,
		Quantity:     t.Quantity,
		Timestamp:    t.Timestamp.UnixMilli(),
	}
}

// ==============================
// Response Helpers
// ==============================

func respondJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, error string, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: error, Message: message})
}
