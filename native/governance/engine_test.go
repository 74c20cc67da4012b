package governance

import (
	"errors"
	"math"
	"testing"

	"zklend/core/events"
	"zklend/crypto"
)

type mockState struct {
	slot *Governance
}

func (m *mockState) GovernanceSlot() (*Governance, error) { return m.slot.Clone(), nil }

func (m *mockState) PutGovernanceSlot(slot *Governance) error {
	m.slot = slot.Clone()
	return nil
}

type rosterSet map[string]bool

func (r rosterSet) IsWhitelisted(addr crypto.Address) bool { return r[addr.String()] }

func testAddr(seed byte) crypto.Address {
	raw := make([]byte, 20)
	for i := range raw {
		raw[i] = seed
	}
	return crypto.NewAddress(crypto.ParticipantPrefix, raw)
}

func newTestEngine(state *mockState, roster rosterSet) (*Engine, *events.MemoryEmitter) {
	emitter := &events.MemoryEmitter{}
	engine := NewEngine()
	engine.SetState(state)
	engine.SetRoster(roster)
	engine.SetEmitter(emitter)
	return engine, emitter
}

func TestProposeChangeAdvancesIDAndResetsTally(t *testing.T) {
	state := &mockState{}
	engine, emitter := newTestEngine(state, rosterSet{})
	proposer := testAddr(0x01)

	id, err := engine.ProposeChange(proposer, ProposalTypeInterestRate, 7)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if id != 1 {
		t.Fatalf("proposal id = %d, want 1", id)
	}

	// The prior tally is discarded when a new proposal takes the slot.
	state.slot.Votes = 5
	id, err = engine.ProposeChange(proposer, ProposalTypeLockTime, 900)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if id != 2 {
		t.Fatalf("proposal id = %d, want 2", id)
	}
	if state.slot.Votes != 0 {
		t.Fatalf("tally not reset, got %d", state.slot.Votes)
	}
	if state.slot.ProposalType != ProposalTypeLockTime || state.slot.NewValue != 900 {
		t.Fatalf("slot not overwritten: %+v", state.slot)
	}
	if len(emitter.Events) != 2 || emitter.Events[1].Type != events.TypeProposalCreated {
		t.Fatalf("unexpected events: %+v", emitter.Events)
	}
}

func TestProposeChangeIDOverflow(t *testing.T) {
	state := &mockState{slot: &Governance{ProposalID: math.MaxUint64}}
	engine, _ := newTestEngine(state, rosterSet{})

	if _, err := engine.ProposeChange(testAddr(0x01), ProposalTypeInterestRate, 7); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow, got %v", err)
	}
	if state.slot.ProposalID != math.MaxUint64 {
		t.Fatalf("slot mutated despite overflow")
	}
}

func TestVoteTallies(t *testing.T) {
	state := &mockState{}
	voter := testAddr(0x01)
	engine, emitter := newTestEngine(state, rosterSet{voter.String(): true})

	id, err := engine.ProposeChange(testAddr(0x02), ProposalTypeInterestRate, 7)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}

	tally, err := engine.Vote(voter, id, true)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if tally != 1 {
		t.Fatalf("tally = %d, want 1", tally)
	}
	tally, err = engine.Vote(voter, id, false)
	if err != nil {
		t.Fatalf("vote: %v", err)
	}
	if tally != 0 {
		t.Fatalf("tally = %d, want 0", tally)
	}

	// No double-vote prevention: the same voter keeps counting.
	if _, err := engine.Vote(voter, id, true); err != nil {
		t.Fatalf("repeat vote: %v", err)
	}
	if state.slot.Votes != 1 {
		t.Fatalf("tally = %d, want 1", state.slot.Votes)
	}

	voteEvents := 0
	for _, evt := range emitter.Events {
		if evt.Type == events.TypeVoteCast {
			voteEvents++
		}
	}
	if voteEvents != 3 {
		t.Fatalf("vote events = %d, want 3", voteEvents)
	}
}

func TestVoteRejectsOutsider(t *testing.T) {
	state := &mockState{}
	voter := testAddr(0x01)
	outsider := testAddr(0x02)
	engine, _ := newTestEngine(state, rosterSet{voter.String(): true})

	id, err := engine.ProposeChange(voter, ProposalTypeInterestRate, 7)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := engine.Vote(outsider, id, true); !errors.Is(err, ErrUnauthorizedVoter) {
		t.Fatalf("expected ErrUnauthorizedVoter, got %v", err)
	}
}

func TestVoteRejectsStaleProposalID(t *testing.T) {
	state := &mockState{}
	voter := testAddr(0x01)
	engine, _ := newTestEngine(state, rosterSet{voter.String(): true})

	firstID, err := engine.ProposeChange(voter, ProposalTypeInterestRate, 7)
	if err != nil {
		t.Fatalf("propose: %v", err)
	}
	if _, err := engine.ProposeChange(voter, ProposalTypeLockTime, 900); err != nil {
		t.Fatalf("propose: %v", err)
	}

	// The old id was superseded; ballots against it bounce.
	if _, err := engine.Vote(voter, firstID, true); !errors.Is(err, ErrInvalidProposal) {
		t.Fatalf("expected ErrInvalidProposal, got %v", err)
	}
}

func TestVoteTallyOverflow(t *testing.T) {
	state := &mockState{slot: &Governance{ProposalID: 1, Votes: math.MaxInt64}}
	voter := testAddr(0x01)
	engine, _ := newTestEngine(state, rosterSet{voter.String(): true})

	if _, err := engine.Vote(voter, 1, true); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow at MaxInt64, got %v", err)
	}

	state.slot.Votes = math.MinInt64
	if _, err := engine.Vote(voter, 1, false); !errors.Is(err, ErrMathOverflow) {
		t.Fatalf("expected ErrMathOverflow at MinInt64, got %v", err)
	}
}
