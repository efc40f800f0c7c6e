package domain

import (
	"regexp"
	"strings"

	dErrors "ngx/pkg/domain-errors"
)

// maxEmailLength follows RFC 5321's 254-octet path limit.
const maxEmailLength = 254

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Email is an immutable, normalized email address. Two Emails are equal iff
// their normalized strings match, so the type is safe as a map key.
type Email struct {
	address string
}

// NewEmail validates raw input and returns a normalized Email
// (trimmed, lower-cased). There is no other way to obtain a non-zero Email.
func NewEmail(raw string) (Email, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return Email{}, dErrors.New(dErrors.CodeInvalidInput, "email cannot be empty")
	}
	if len(normalized) > maxEmailLength {
		return Email{}, dErrors.Newf(dErrors.CodeInvalidInput, "email exceeds %d characters", maxEmailLength)
	}
	if !emailPattern.MatchString(normalized) {
		return Email{}, dErrors.New(dErrors.CodeInvalidInput, "email format is invalid").
			WithDetail("value", normalized)
	}
	return Email{address: normalized}, nil
}

func (e Email) String() string {
	return e.address
}

// Domain returns the part after the "@".
func (e Email) Domain() string {
	if at := strings.LastIndexByte(e.address, '@'); at >= 0 {
		return e.address[at+1:]
	}
	return ""
}

// IsZero reports whether the Email was never constructed through NewEmail.
func (e Email) IsZero() bool {
	return e.address == ""
}

// MarshalText encodes the normalized address.
func (e Email) MarshalText() ([]byte, error) {
	return []byte(e.address), nil
}

// UnmarshalText parses an address, applying the same rules as NewEmail.
func (e *Email) UnmarshalText(text []byte) error {
	parsed, err := NewEmail(string(text))
	if err != nil {
		return err
	}
	*e = parsed
	return nil
}
