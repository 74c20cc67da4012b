package gateway

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"zklend/native/lending"
)

type stakeRequest struct {
	Borrower string `json:"borrower"`
	Amount   uint64 `json:"amount"`
	Proof    []byte `json:"proof,omitempty"`
}

type rebalanceRequest struct {
	Borrower string `json:"borrower"`
	Delta    uint64 `json:"delta"`
	Proof    []byte `json:"proof,omitempty"`
}

type borrowRequest struct {
	Borrower string `json:"borrower"`
	Amount   uint64 `json:"amount"`
	Proof    []byte `json:"proof,omitempty"`
	// PoolID selects the institutional pool; only the institutional path
	// reads it.
	PoolID string `json:"poolId,omitempty"`
}

type repayRequest struct {
	Borrower string `json:"borrower"`
	Amount   uint64 `json:"amount"`
}

type liquidateRequest struct {
	Borrower string `json:"borrower"`
	Proof    []byte `json:"proof,omitempty"`
}

type borrowResponse struct {
	Status string `json:"status"`
	Fee    uint64 `json:"fee"`
}

type repayResponse struct {
	Status    string `json:"status"`
	Principal uint64 `json:"principal"`
	Interest  uint64 `json:"interest"`
}

type liquidateResponse struct {
	Status string `json:"status"`
	Seized uint64 `json:"seized"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// positionResponse deliberately omits the confidential collateral and debt
// balances; only the public lock timestamp is exposed.
type positionResponse struct {
	Owner           string `json:"owner"`
	BorrowTimestamp int64  `json:"borrowTimestamp"`
	HasPosition     bool   `json:"hasPosition"`
}

func (s *Server) handleStake(w http.ResponseWriter, r *http.Request) {
	var req stakeRequest
	if err := s.decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	borrower, err := parseAddress(req.Borrower)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.lending.StakeCollateral(borrower, req.Amount, req.Proof); err != nil {
		s.fail(w, "stake_collateral", err)
		return
	}
	s.applied("stake_collateral")
	writeJSON(w, http.StatusOK, statusResponse{Status: "staked"})
}

func (s *Server) handleRebalance(w http.ResponseWriter, r *http.Request) {
	var req rebalanceRequest
	if err := s.decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	borrower, err := parseAddress(req.Borrower)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := s.lending.RebalanceCollateral(borrower, req.Delta, req.Proof); err != nil {
		s.fail(w, "rebalance_collateral", err)
		return
	}
	s.applied("rebalance_collateral")
	writeJSON(w, http.StatusOK, statusResponse{Status: "rebalanced"})
}

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request) {
	s.borrowWithPolicy(w, r, "borrow", func(req borrowRequest) (lending.BorrowPolicy, error) {
		return lending.OpenPolicy(), nil
	})
}

func (s *Server) handleInstitutionalBorrow(w http.ResponseWriter, r *http.Request) {
	s.borrowWithPolicy(w, r, "institutional_borrow", func(req borrowRequest) (lending.BorrowPolicy, error) {
		poolID := req.PoolID
		if poolID == "" {
			poolID = s.poolID
		}
		pool, err := s.state.InstitutionalPool(poolID)
		if err != nil {
			return lending.BorrowPolicy{}, err
		}
		// A missing pool admits nobody; the nil record fails the whitelist
		// check inside the engine.
		return lending.InstitutionalPolicy(pool), nil
	})
}

func (s *Server) handleDelegatedBorrow(w http.ResponseWriter, r *http.Request) {
	s.borrowWithPolicy(w, r, "delegated_borrow", func(req borrowRequest) (lending.BorrowPolicy, error) {
		borrower, err := parseAddress(req.Borrower)
		if err != nil {
			return lending.BorrowPolicy{}, err
		}
		delegation, err := s.state.Delegation(borrower)
		if err != nil {
			return lending.BorrowPolicy{}, err
		}
		return lending.DelegatedPolicy(delegation), nil
	})
}

func (s *Server) borrowWithPolicy(w http.ResponseWriter, r *http.Request, operation string, policyFor func(borrowRequest) (lending.BorrowPolicy, error)) {
	var req borrowRequest
	if err := s.decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	borrower, err := parseAddress(req.Borrower)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	policy, err := policyFor(req)
	if err != nil {
		s.fail(w, operation, err)
		return
	}
	fee, err := s.lending.Borrow(borrower, req.Amount, req.Proof, policy)
	if err != nil {
		s.fail(w, operation, err)
		return
	}
	s.applied(operation)
	writeJSON(w, http.StatusOK, borrowResponse{Status: "borrowed", Fee: fee})
}

func (s *Server) handleRepay(w http.ResponseWriter, r *http.Request) {
	var req repayRequest
	if err := s.decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	borrower, err := parseAddress(req.Borrower)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	principal, interest, err := s.lending.Repay(borrower, req.Amount)
	if err != nil {
		s.fail(w, "repay", err)
		return
	}
	s.applied("repay")
	writeJSON(w, http.StatusOK, repayResponse{Status: "repaid", Principal: principal, Interest: interest})
}

func (s *Server) handleLiquidate(w http.ResponseWriter, r *http.Request) {
	var req liquidateRequest
	if err := s.decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	borrower, err := parseAddress(req.Borrower)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	seized, err := s.lending.Liquidate(borrower, req.Proof)
	if err != nil {
		s.fail(w, "liquidate", err)
		return
	}
	s.applied("liquidate")
	writeJSON(w, http.StatusOK, liquidateResponse{Status: "liquidated", Seized: seized})
}

func (s *Server) handleProtocolState(w http.ResponseWriter, _ *http.Request) {
	protocol, err := s.state.ProtocolState()
	if err != nil {
		writeError(w, err)
		return
	}
	if protocol == nil {
		writeError(w, fmt.Errorf("protocol not initialised"))
		return
	}
	writeJSON(w, http.StatusOK, protocol)
}

func (s *Server) handleTreasury(w http.ResponseWriter, _ *http.Request) {
	treasury, err := s.state.Treasury()
	if err != nil {
		writeError(w, err)
		return
	}
	if treasury == nil {
		writeError(w, fmt.Errorf("treasury not initialised"))
		return
	}
	writeJSON(w, http.StatusOK, treasury)
}

func (s *Server) handleLendingPool(w http.ResponseWriter, r *http.Request) {
	poolID := chi.URLParam(r, "poolID")
	pool, err := s.state.LendingPool(poolID)
	if err != nil {
		writeError(w, err)
		return
	}
	if pool == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Kind:    "NotFound",
			Message: fmt.Sprintf("pool %q not found", poolID),
		}})
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (s *Server) handlePosition(w http.ResponseWriter, r *http.Request) {
	addr, err := parseAddress(chi.URLParam(r, "address"))
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	account, err := s.state.BorrowerAccount(addr)
	if err != nil {
		writeError(w, err)
		return
	}
	if account == nil {
		writeJSON(w, http.StatusOK, positionResponse{Owner: addr.String()})
		return
	}
	writeJSON(w, http.StatusOK, positionResponse{
		Owner:           account.Owner.String(),
		BorrowTimestamp: account.BorrowTimestamp,
		HasPosition:     true,
	})
}
