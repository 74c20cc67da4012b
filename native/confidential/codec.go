package confidential

import (
	"encoding/json"
	"fmt"
)

// storedAmount is the persistence shape for Amount. The ciphertext field name
// is fixed so swapping the backend later does not force a state migration.
type storedAmount struct {
	Ciphertext uint64 `json:"ct"`
}

// MarshalJSON implements json.Marshaler so ledger records embedding Amounts
// can be persisted by the state manager.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(storedAmount{Ciphertext: a.value})
}

// UnmarshalJSON implements json.Unmarshaler.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var stored storedAmount
	if err := json.Unmarshal(data, &stored); err != nil {
		return fmt.Errorf("confidential: decode amount: %w", err)
	}
	a.value = stored.Ciphertext
	return nil
}
