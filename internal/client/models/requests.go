package models

import (
	"strings"

	"ngx/pkg/domain"
	dErrors "ngx/pkg/domain-errors"
)

const (
	defaultPageSize = 50
	maxPageSize     = 100
)

// CreateClientRequest carries already-authenticated input into the create
// use case. Raw strings are validated into value objects during execution.
type CreateClientRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone,omitempty"`
	ProgramType string `json:"program_type"`
	Status      string `json:"status,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

func (r *CreateClientRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Phone = strings.TrimSpace(r.Phone)
	r.ProgramType = strings.ToLower(strings.TrimSpace(r.ProgramType))
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
}

func (r *CreateClientRequest) Validate() error {
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "name is required")
	}
	if r.Email == "" {
		return dErrors.New(dErrors.CodeValidation, "email is required")
	}
	if _, err := ParseProgramType(r.ProgramType); err != nil {
		return err
	}
	if r.Status != "" {
		if _, err := ParseClientStatus(r.Status); err != nil {
			return err
		}
	}
	return nil
}

// UpdateClientRequest is a partial update: nil fields are left untouched.
// A requested status routes through the entity's guarded transitions, never
// direct assignment.
type UpdateClientRequest struct {
	Name        *string         `json:"name,omitempty"`
	Email       *string         `json:"email,omitempty"`
	Phone       *string         `json:"phone,omitempty"`
	ProgramType *string         `json:"program_type,omitempty"`
	Status      *string         `json:"status,omitempty"`
	Metadata    *map[string]any `json:"metadata,omitempty"`
}

func (r *UpdateClientRequest) Normalize() {
	trim := func(p *string, lower bool) {
		if p == nil {
			return
		}
		v := strings.TrimSpace(*p)
		if lower {
			v = strings.ToLower(v)
		}
		*p = v
	}
	trim(r.Name, false)
	trim(r.Email, false)
	trim(r.Phone, false)
	trim(r.ProgramType, true)
	trim(r.Status, true)
}

func (r *UpdateClientRequest) Validate() error {
	if r.Name != nil && len([]rune(*r.Name)) < 2 {
		return dErrors.New(dErrors.CodeValidation, "name must have at least 2 characters")
	}
	if r.ProgramType != nil {
		if _, err := ParseProgramType(*r.ProgramType); err != nil {
			return err
		}
	}
	if r.Status != nil {
		if _, err := ParseClientStatus(*r.Status); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether the request would change nothing.
func (r *UpdateClientRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Phone == nil &&
		r.ProgramType == nil && r.Status == nil && r.Metadata == nil
}

// SearchClientsRequest selects exactly one filter mode per call: free-text
// query, status, program type, or none (all clients).
type SearchClientsRequest struct {
	Query       string `json:"query,omitempty"`
	Status      string `json:"status,omitempty"`
	ProgramType string `json:"program_type,omitempty"`
	Limit       int    `json:"limit,omitempty"`
	Offset      int    `json:"offset,omitempty"`
}

func (r *SearchClientsRequest) Normalize() {
	r.Query = strings.TrimSpace(r.Query)
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.ProgramType = strings.ToLower(strings.TrimSpace(r.ProgramType))
	if r.Limit <= 0 {
		r.Limit = defaultPageSize
	}
	if r.Limit > maxPageSize {
		r.Limit = maxPageSize
	}
	if r.Offset < 0 {
		r.Offset = 0
	}
}

func (r *SearchClientsRequest) Validate() error {
	modes := 0
	if r.Query != "" {
		modes++
	}
	if r.Status != "" {
		modes++
	}
	if r.ProgramType != "" {
		modes++
	}
	if modes > 1 {
		return dErrors.New(dErrors.CodeValidation, "query, status, and program_type filters are mutually exclusive")
	}
	if r.Status != "" {
		if _, err := ParseClientStatus(r.Status); err != nil {
			return err
		}
	}
	if r.ProgramType != "" {
		if _, err := ParseProgramType(r.ProgramType); err != nil {
			return err
		}
	}
	return nil
}

// Page bounds a listing. Stores must apply it after a stable ordering so a
// fixed filter pages consistently.
type Page struct {
	Limit  int
	Offset int
}

// ParseEmail converts the raw request email into its value object,
// reporting validation failures as CodeValidation.
func ParseEmail(raw string) (domain.Email, error) {
	email, err := domain.NewEmail(raw)
	if err != nil {
		return domain.Email{}, dErrors.Wrap(err, dErrors.CodeValidation, "invalid email")
	}
	return email, nil
}

// ParsePhone converts the raw request phone into its value object. Empty
// input yields nil (phone is optional).
func ParsePhone(raw string) (*domain.PhoneNumber, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	phone, err := domain.NewPhoneNumber(raw)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeValidation, "invalid phone number")
	}
	return &phone, nil
}
