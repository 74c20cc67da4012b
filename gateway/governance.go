package gateway

import "net/http"

type proposeRequest struct {
	Proposer     string `json:"proposer"`
	ProposalType uint8  `json:"proposalType"`
	NewValue     uint64 `json:"newValue"`
}

type proposeResponse struct {
	Status     string `json:"status"`
	ProposalID uint64 `json:"proposalId"`
}

type voteRequest struct {
	Voter      string `json:"voter"`
	ProposalID uint64 `json:"proposalId"`
	Support    bool   `json:"support"`
}

type voteResponse struct {
	Status string `json:"status"`
	Tally  int64  `json:"tally"`
}

func (s *Server) handlePropose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
	if err := s.decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	proposer, err := parseAddress(req.Proposer)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	id, err := s.governance.ProposeChange(proposer, req.ProposalType, req.NewValue)
	if err != nil {
		s.fail(w, "propose_change", err)
		return
	}
	s.applied("propose_change")
	writeJSON(w, http.StatusOK, proposeResponse{Status: "proposed", ProposalID: id})
}

func (s *Server) handleVote(w http.ResponseWriter, r *http.Request) {
	var req voteRequest
	if err := s.decode(w, r, &req); err != nil {
		writeBadRequest(w, err)
		return
	}
	voter, err := parseAddress(req.Voter)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	tally, err := s.governance.Vote(voter, req.ProposalID, req.Support)
	if err != nil {
		s.fail(w, "vote", err)
		return
	}
	s.applied("vote")
	writeJSON(w, http.StatusOK, voteResponse{Status: "voted", Tally: tally})
}

func (s *Server) handleProposal(w http.ResponseWriter, _ *http.Request) {
	slot, err := s.state.GovernanceSlot()
	if err != nil {
		writeError(w, err)
		return
	}
	if slot == nil {
		writeJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{
			Kind:    "NotFound",
			Message: "no proposal has been created",
		}})
		return
	}
	writeJSON(w, http.StatusOK, slot)
}
