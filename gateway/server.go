// Package gateway exposes the module engines over HTTP. Mutating endpoints
// accept JSON bodies, map engine sentinels onto the wire error taxonomy, and
// never expose confidential balances in query responses.
package gateway

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"zklend/crypto"
	"zklend/native/governance"
	"zklend/native/lending"
	"zklend/observability/metrics"
	"zklend/state"
)

const requestLimit = 1 << 20 // 1 MiB

// Server binds the lending and governance engines to HTTP routes.
type Server struct {
	lending    *lending.Engine
	governance *governance.Engine
	state      *state.Manager
	poolID     string
	log        *slog.Logger
	metrics    *metrics.LendingMetrics
}

// NewServer wires a gateway over the supplied engines and state manager.
func NewServer(lendingEngine *lending.Engine, govEngine *governance.Engine, manager *state.Manager, poolID string, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		lending:    lendingEngine,
		governance: govEngine,
		state:      manager,
		poolID:     poolID,
		log:        log,
		metrics:    metrics.Lending(),
	}
}

// Router assembles the HTTP surface.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/lending", func(r chi.Router) {
		r.Post("/stake", s.handleStake)
		r.Post("/rebalance", s.handleRebalance)
		r.Post("/borrow", s.handleBorrow)
		r.Post("/borrow/institutional", s.handleInstitutionalBorrow)
		r.Post("/borrow/delegated", s.handleDelegatedBorrow)
		r.Post("/repay", s.handleRepay)
		r.Post("/liquidate", s.handleLiquidate)
		r.Get("/state", s.handleProtocolState)
		r.Get("/treasury", s.handleTreasury)
		r.Get("/pools/{poolID}", s.handleLendingPool)
		r.Get("/positions/{address}", s.handlePosition)
	})
	r.Route("/gov", func(r chi.Router) {
		r.Post("/propose", s.handlePropose)
		r.Post("/vote", s.handleVote)
		r.Get("/proposal", s.handleProposal)
	})
	return r
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, into any) error {
	body := http.MaxBytesReader(w, r.Body, requestLimit)
	defer func() { _ = body.Close() }()
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(into); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}

func parseAddress(raw string) (crypto.Address, error) {
	addr, err := crypto.DecodeAddress(raw)
	if err != nil {
		return crypto.Address{}, fmt.Errorf("invalid address %q: %w", raw, err)
	}
	return addr, nil
}

// fail reports a rejected operation: wire error, failure metric, warn log.
func (s *Server) fail(w http.ResponseWriter, operation string, err error) {
	kind, _ := writeError(w, err)
	s.metrics.ObserveFailure(operation, kind)
	s.log.Warn("operation rejected", "operation", operation, "kind", kind, "err", err)
}

// applied records a successful operation and refreshes the ledger gauges.
func (s *Server) applied(operation string) {
	s.metrics.ObserveOperation(operation)
	protocol, err := s.state.ProtocolState()
	if err != nil || protocol == nil {
		return
	}
	treasury, err := s.state.Treasury()
	if err != nil || treasury == nil {
		return
	}
	s.metrics.SetLedger(
		protocol.UtilizationRate,
		protocol.TotalLoans,
		protocol.TotalLiquidity,
		treasury.TotalFeesCollected,
	)
}
