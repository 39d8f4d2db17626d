package pagination

import (
	"encoding/base64"
	"encoding/json"
)

// Cursor is the position of a row: its order-field value rendered as text
// plus its id as tie breaker.
type Cursor struct {
	Value string `json:"v"`
	ID    string `json:"id"`
}

// Encode renders the cursor as URL-safe base64 JSON.
func (c Cursor) Encode() string {
	data, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(data)
}

func DecodeCursor(s string) (Cursor, error) {
	data, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return Cursor{}, ErrInvalidCursor
	}
	var c Cursor
	if err := json.Unmarshal(data, &c); err != nil || c.ID == "" {
		return Cursor{}, ErrInvalidCursor
	}
	return c, nil
}
