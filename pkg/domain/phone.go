package domain

import (
	"fmt"
	"strings"

	dErrors "ngx/pkg/domain-errors"
)

// PhoneNumber is an immutable, normalized international phone number.
// Normalized form is the digits with an optional leading "+"; any regional
// formatting is derived, never stored.
type PhoneNumber struct {
	normalized string
}

// NewPhoneNumber validates raw input against a permissive international
// grammar: an optional leading "+" followed by 8-16 digits, with spaces,
// dashes, dots, and parentheses tolerated as separators.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PhoneNumber{}, dErrors.New(dErrors.CodeInvalidInput, "phone number cannot be empty")
	}

	plus := strings.HasPrefix(trimmed, "+")
	var digits strings.Builder
	for _, r := range strings.TrimPrefix(trimmed, "+") {
		switch {
		case r >= '0' && r <= '9':
			digits.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
			// separator, dropped in normalization
		default:
			return PhoneNumber{}, dErrors.New(dErrors.CodeInvalidInput, "phone number contains invalid characters").
				WithDetail("value", trimmed)
		}
	}

	n := digits.Len()
	if n < 8 || n > 16 {
		return PhoneNumber{}, dErrors.New(dErrors.CodeInvalidInput, "phone number must contain 8 to 16 digits").
			WithDetail("digits", n)
	}

	normalized := digits.String()
	if plus {
		normalized = "+" + normalized
	}
	return PhoneNumber{normalized: normalized}, nil
}

func (p PhoneNumber) String() string {
	return p.normalized
}

// IsZero reports whether the PhoneNumber was never constructed.
func (p PhoneNumber) IsZero() bool {
	return p.normalized == ""
}

// MarshalText encodes the normalized number.
func (p PhoneNumber) MarshalText() ([]byte, error) {
	return []byte(p.normalized), nil
}

// UnmarshalText parses a number, applying the same rules as NewPhoneNumber.
func (p *PhoneNumber) UnmarshalText(text []byte) error {
	parsed, err := NewPhoneNumber(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Formatted returns a human-readable rendering. NANP-length numbers get
// (XXX) XXX-XXXX formatting; everything else is grouped. Advisory only —
// persistence always uses the normalized form.
func (p PhoneNumber) Formatted() string {
	digits := strings.TrimPrefix(p.normalized, "+")
	switch {
	case len(digits) == 10:
		return fmt.Sprintf("(%s) %s-%s", digits[:3], digits[3:6], digits[6:])
	case len(digits) == 11 && digits[0] == '1':
		return fmt.Sprintf("+1 (%s) %s-%s", digits[1:4], digits[4:7], digits[7:])
	default:
		var groups []string
		for len(digits) > 4 {
			groups = append(groups, digits[:3])
			digits = digits[3:]
		}
		groups = append(groups, digits)
		formatted := strings.Join(groups, " ")
		if strings.HasPrefix(p.normalized, "+") {
			return "+" + formatted
		}
		return formatted
	}
}

// IsLikelyMobile is a best-effort heuristic: full international numbers and
// NANP numbers in mobile-heavy area ranges lean mobile. Never authoritative;
// callers must not gate behavior on it.
func (p PhoneNumber) IsLikelyMobile() bool {
	digits := strings.TrimPrefix(p.normalized, "+")
	if strings.HasPrefix(p.normalized, "+") && len(digits) >= 11 {
		return true
	}
	return len(digits) == 10
}
