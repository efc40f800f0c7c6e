// Package domain holds typed identifiers and value objects shared across the
// coaching platform. Construction is the only validation point: a value of
// one of these types is valid by existence.
package domain

import (
	"github.com/google/uuid"

	dErrors "ngx/pkg/domain-errors"
)

// ClientID uniquely identifies a coaching client. Generated once at creation
// and never reused; the typed wrapper prevents mixing it up with other IDs
// at compile time.
type ClientID uuid.UUID

// NewClientID returns a fresh, globally unique client identifier.
func NewClientID() ClientID {
	return ClientID(uuid.New())
}

// ParseClientID validates and parses a client ID from its string form.
// Empty strings, malformed UUIDs, and the nil UUID are rejected.
func ParseClientID(s string) (ClientID, error) {
	if s == "" {
		return ClientID{}, dErrors.New(dErrors.CodeInvalidInput, "client id cannot be empty")
	}
	parsed, err := uuid.Parse(s)
	if err != nil {
		return ClientID{}, dErrors.Wrap(err, dErrors.CodeInvalidInput, "client id must be a valid UUID")
	}
	if parsed == uuid.Nil {
		return ClientID{}, dErrors.New(dErrors.CodeInvalidInput, "client id cannot be the nil UUID")
	}
	return ClientID(parsed), nil
}

func (id ClientID) String() string {
	return uuid.UUID(id).String()
}

// IsZero reports whether the ID is the zero value (never a valid identity).
func (id ClientID) IsZero() bool {
	return uuid.UUID(id) == uuid.Nil
}

// MarshalText encodes the ID as its canonical UUID string.
func (id ClientID) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText parses an ID, applying the same rules as ParseClientID.
func (id *ClientID) UnmarshalText(text []byte) error {
	parsed, err := ParseClientID(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
