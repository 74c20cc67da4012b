package governance

// Proposal type discriminants. The slot records which protocol parameter a
// proposal targets; tallying never applies the value back to protocol state.
const (
	ProposalTypeInterestRate uint8 = iota
	ProposalTypeLockTime
	ProposalTypeLiquidationThreshold
)

// Governance is the single-slot proposal record. Creating a new proposal
// overwrites the slot and discards the previous tally; there is no queue and
// no execution step.
type Governance struct {
	// ProposalID is a monotonic counter incremented on every proposal.
	ProposalID uint64 `json:"proposalId"`
	// ProposalType discriminates which parameter the proposal targets.
	ProposalType uint8 `json:"proposalType"`
	// NewValue is the proposed parameter value. Tally-only: nothing applies
	// it.
	NewValue uint64 `json:"newValue"`
	// Votes is the running signed tally, +1 per approval and -1 per
	// rejection.
	Votes int64 `json:"votes"`
}

// Clone returns a deep copy of the governance slot.
func (g *Governance) Clone() *Governance {
	if g == nil {
		return nil
	}
	clone := *g
	return &clone
}
