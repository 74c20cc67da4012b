package events

import (
	"zklend/core/types"
	"zklend/crypto"
)

const (
	TypeProposalCreated = "gov.proposed"
	TypeVoteCast        = "gov.vote"
)

// ProposalCreated is emitted when a proposal takes over the governance slot.
type ProposalCreated struct {
	ProposalID   uint64
	ProposalType uint8
	NewValue     uint64
	Proposer     crypto.Address
}

func (ProposalCreated) EventType() string { return TypeProposalCreated }

func (e ProposalCreated) Event() *types.Event {
	return &types.Event{
		Type: TypeProposalCreated,
		Attributes: map[string]string{
			"proposalId":   uintToString(e.ProposalID),
			"proposalType": uintToString(uint64(e.ProposalType)),
			"newValue":     uintToString(e.NewValue),
			"proposer":     e.Proposer.String(),
		},
	}
}

// VoteCast is emitted for every accepted ballot.
type VoteCast struct {
	ProposalID uint64
	Voter      crypto.Address
	Support    bool
	Tally      int64
}

func (VoteCast) EventType() string { return TypeVoteCast }

func (e VoteCast) Event() *types.Event {
	support := "no"
	if e.Support {
		support = "yes"
	}
	return &types.Event{
		Type: TypeVoteCast,
		Attributes: map[string]string{
			"proposalId": uintToString(e.ProposalID),
			"voter":      e.Voter.String(),
			"support":    support,
			"tally":      intToString(e.Tally),
		},
	}
}
