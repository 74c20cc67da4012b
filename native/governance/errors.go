package governance

import "errors"

var (
	// ErrMathOverflow marks a checked counter or tally step that wrapped.
	ErrMathOverflow = errors.New("governance: arithmetic overflow")
	// ErrUnauthorizedVoter rejects signers outside the voter roster.
	ErrUnauthorizedVoter = errors.New("governance: unauthorized voter")
	// ErrInvalidProposal rejects votes referencing anything but the current
	// proposal id, including votes on proposals already superseded.
	ErrInvalidProposal = errors.New("governance: invalid proposal id")
)

var errNilState = errors.New("governance: state not configured")
