package governance

import (
	"zklend/core/events"
	"zklend/crypto"
	nativecommon "zklend/native/common"
)

const moduleName = "governance"

// governanceState persists the single proposal slot.
type governanceState interface {
	GovernanceSlot() (*Governance, error)
	PutGovernanceSlot(slot *Governance) error
}

// VoterRoster answers whether an address may cast votes. The lending module's
// institutional whitelist satisfies this.
type VoterRoster interface {
	IsWhitelisted(addr crypto.Address) bool
}

// Engine manages the single-slot governance record: proposal creation and the
// signed vote tally. Proposals never execute; the tally is informational.
type Engine struct {
	state   governanceState
	roster  VoterRoster
	emitter events.Emitter
	pauses  nativecommon.PauseView
}

// NewEngine constructs a governance engine. State and roster are wired
// separately so tests can substitute mocks.
func NewEngine() *Engine {
	return &Engine{emitter: events.NoopEmitter{}}
}

// SetState wires the engine to the external persistence layer.
func (e *Engine) SetState(state governanceState) { e.state = state }

// SetRoster wires the voter eligibility check. A nil roster rejects every
// voter.
func (e *Engine) SetRoster(roster VoterRoster) {
	if e == nil {
		return
	}
	e.roster = roster
}

// SetEmitter configures the event emitter. Passing nil resets to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if e == nil {
		return
	}
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetPauses wires the module pause switches consulted on every mutation.
func (e *Engine) SetPauses(p nativecommon.PauseView) {
	if e == nil {
		return
	}
	e.pauses = p
}

// ProposeChange advances the proposal counter and overwrites the slot with
// the new proposal, resetting the tally to zero. Any unresolved prior
// proposal is silently discarded; the slot is a register, not a queue. The
// new proposal id is returned.
func (e *Engine) ProposeChange(proposer crypto.Address, proposalType uint8, newValue uint64) (uint64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}

	slot, err := e.slot()
	if err != nil {
		return 0, err
	}
	nextID := slot.ProposalID + 1
	if nextID < slot.ProposalID {
		return 0, ErrMathOverflow
	}

	slot.ProposalID = nextID
	slot.ProposalType = proposalType
	slot.NewValue = newValue
	slot.Votes = 0
	if err := e.state.PutGovernanceSlot(slot); err != nil {
		return 0, err
	}

	e.emit(events.ProposalCreated{
		Proposer:     proposer,
		ProposalID:   nextID,
		ProposalType: proposalType,
		NewValue:     newValue,
	})
	return nextID, nil
}

// Vote adjusts the current proposal's tally by +1 for approval or -1 for
// rejection. The voter must appear on the roster and the supplied id must
// match the slot's current proposal, which also rejects late votes on
// superseded proposals. Nothing prevents the same roster member voting more
// than once.
func (e *Engine) Vote(voter crypto.Address, proposalID uint64, approve bool) (int64, error) {
	if e == nil || e.state == nil {
		return 0, errNilState
	}
	if err := nativecommon.Guard(e.pauses, moduleName); err != nil {
		return 0, err
	}
	if e.roster == nil || !e.roster.IsWhitelisted(voter) {
		return 0, ErrUnauthorizedVoter
	}

	slot, err := e.slot()
	if err != nil {
		return 0, err
	}
	if proposalID != slot.ProposalID {
		return 0, ErrInvalidProposal
	}

	delta := int64(1)
	if !approve {
		delta = -1
	}
	tally := slot.Votes + delta
	if (delta > 0 && tally < slot.Votes) || (delta < 0 && tally > slot.Votes) {
		return 0, ErrMathOverflow
	}

	slot.Votes = tally
	if err := e.state.PutGovernanceSlot(slot); err != nil {
		return 0, err
	}

	e.emit(events.VoteCast{
		Voter:      voter,
		ProposalID: proposalID,
		Support:    approve,
		Tally:      tally,
	})
	return tally, nil
}

func (e *Engine) slot() (*Governance, error) {
	slot, err := e.state.GovernanceSlot()
	if err != nil {
		return nil, err
	}
	if slot == nil {
		slot = &Governance{}
	}
	return slot, nil
}

func (e *Engine) emit(payload events.Payload) {
	if e == nil || e.emitter == nil {
		return
	}
	e.emitter.Emit(payload)
}
