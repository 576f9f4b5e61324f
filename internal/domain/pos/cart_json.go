package pos

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/pos/backend/internal/domain/shared"
)

// cartJSON is the wire shape of a cart for registry and queue storage
type cartJSON struct {
	Mode       TransactionMode      `json:"mode"`
	Lines      []CartLine           `json:"lines"`
	Advisories map[uuid.UUID]string `json:"advisories,omitempty"`
}

// MarshalJSON implements json.Marshaler
func (c *Cart) MarshalJSON() ([]byte, error) {
	return json.Marshal(cartJSON{
		Mode:       c.mode,
		Lines:      c.lines,
		Advisories: c.advisories,
	})
}

// UnmarshalJSON implements json.Unmarshaler
func (c *Cart) UnmarshalJSON(data []byte) error {
	var v cartJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if !v.Mode.IsValid() {
		return shared.NewDomainError("INVALID_MODE", "Transaction mode must be SALE or RETURN")
	}
	c.mode = v.Mode
	c.lines = v.Lines
	if c.lines == nil {
		c.lines = make([]CartLine, 0)
	}
	c.advisories = v.Advisories
	if c.advisories == nil {
		c.advisories = make(map[uuid.UUID]string)
	}
	return nil
}
