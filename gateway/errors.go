package gateway

import (
	"encoding/json"
	"errors"
	"net/http"

	nativecommon "zklend/native/common"
	"zklend/native/governance"
	"zklend/native/lending"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// errorKind maps engine sentinels to the wire error taxonomy and an HTTP
// status. Unknown errors surface as internal failures without leaking detail.
func errorKind(err error) (string, int) {
	switch {
	case errors.Is(err, lending.ErrInvalidProof):
		return "InvalidProof", http.StatusBadRequest
	case errors.Is(err, lending.ErrMathOverflow):
		return "MathOverflow", http.StatusUnprocessableEntity
	case errors.Is(err, governance.ErrMathOverflow):
		return "MathOverflow", http.StatusUnprocessableEntity
	case errors.Is(err, lending.ErrInsufficientCollateral):
		return "InsufficientCollateral", http.StatusConflict
	case errors.Is(err, lending.ErrInsufficientLiquidity):
		return "InsufficientLiquidity", http.StatusConflict
	case errors.Is(err, lending.ErrRepayExceedsBorrow):
		return "RepayExceedsBorrow", http.StatusConflict
	case errors.Is(err, lending.ErrLiquidationNotAllowed):
		return "LiquidationNotAllowed", http.StatusConflict
	case errors.Is(err, lending.ErrCollateralSufficient):
		return "CollateralSufficient", http.StatusConflict
	case errors.Is(err, lending.ErrCollateralLockTimeNotMet):
		return "CollateralLockTimeNotMet", http.StatusConflict
	case errors.Is(err, lending.ErrUnauthorizedBorrower):
		return "UnauthorizedBorrower", http.StatusForbidden
	case errors.Is(err, lending.ErrBorrowLimitExceeded):
		return "BorrowLimitExceeded", http.StatusForbidden
	case errors.Is(err, governance.ErrUnauthorizedVoter):
		return "UnauthorizedVoter", http.StatusForbidden
	case errors.Is(err, governance.ErrInvalidProposal):
		return "InvalidProposal", http.StatusConflict
	case errors.Is(err, nativecommon.ErrModulePaused):
		return "ModulePaused", http.StatusServiceUnavailable
	default:
		return "Internal", http.StatusInternalServerError
	}
}

func writeError(w http.ResponseWriter, err error) (string, int) {
	kind, status := errorKind(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	writeJSON(w, status, errorBody{Error: errorDetail{Kind: kind, Message: message}})
	return kind, status
}

func writeBadRequest(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Kind:    "BadRequest",
		Message: err.Error(),
	}})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
