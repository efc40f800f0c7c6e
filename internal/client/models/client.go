package models

import (
	"fmt"
	"strings"
	"time"

	"ngx/pkg/domain"
	dErrors "ngx/pkg/domain-errors"
)

// Client is the aggregate root for a coaching client.
//
// Invariants:
//   - Name has at least 2 non-whitespace characters
//   - Email is always a valid domain.Email
//   - Status transitions follow the state machine on ClientStatus
//   - UpdatedAt is monotonically non-decreasing and refreshed on every mutation
//   - Notes is an append-only timestamped log; history is never rewritten
//
// All mutations go through the methods below; no other layer assigns fields
// directly. Deletion is a repository concern, not a status.
type Client struct {
	ID          domain.ClientID     `json:"id"`
	Name        string              `json:"name"`
	Email       domain.Email        `json:"email"`
	Phone       *domain.PhoneNumber `json:"phone,omitempty"`
	ProgramType ProgramType         `json:"program_type"`
	Status      ClientStatus        `json:"status"`
	Notes       string              `json:"notes"`
	Metadata    map[string]any      `json:"metadata"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// NewClient assembles a client with a fresh identity. Status defaults to
// trial when empty; an explicit status is honored as-is (some intake paths
// register already-active clients, so the bypass is intentional).
func NewClient(name string, email domain.Email, phone *domain.PhoneNumber, programType ProgramType, status ClientStatus, now time.Time) (*Client, error) {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client name must have at least 2 characters")
	}
	if email.IsZero() {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "client email is required")
	}
	if !programType.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid program type %q", programType)
	}
	if status == "" {
		status = StatusTrial
	}
	if !status.IsValid() {
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "invalid client status %q", status)
	}
	return &Client{
		ID:          domain.NewClientID(),
		Name:        name,
		Email:       email,
		Phone:       phone,
		ProgramType: programType,
		Status:      status,
		Metadata:    make(map[string]any),
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Activate transitions the client to active. Allowed from every state except
// cancelled.
func (c *Client) Activate(now time.Time) error {
	if !c.Status.CanTransitionTo(StatusActive) {
		return c.transitionError("activate")
	}
	c.Status = StatusActive
	c.touch(now)
	return nil
}

// Deactivate transitions the client to inactive. Allowed from every state
// except cancelled.
func (c *Client) Deactivate(now time.Time) error {
	if !c.Status.CanTransitionTo(StatusInactive) {
		return c.transitionError("deactivate")
	}
	c.Status = StatusInactive
	c.touch(now)
	return nil
}

// Pause suspends an active subscription. Only active clients can pause.
func (c *Client) Pause(now time.Time) error {
	if !c.Status.CanTransitionTo(StatusPaused) {
		return c.transitionError("pause")
	}
	c.Status = StatusPaused
	c.touch(now)
	return nil
}

// Resume reactivates a paused subscription. Only paused clients can resume.
func (c *Client) Resume(now time.Time) error {
	if c.Status != StatusPaused {
		return c.transitionError("resume")
	}
	c.Status = StatusActive
	c.touch(now)
	return nil
}

// Cancel ends the relationship. Allowed from every state; cancelled is
// terminal and has no outgoing transitions.
func (c *Client) Cancel(now time.Time) error {
	c.Status = StatusCancelled
	c.touch(now)
	return nil
}

// ChangeProgramType switches the coaching program. Rejected for cancelled
// clients; switching to the current program is a no-op.
func (c *Client) ChangeProgramType(programType ProgramType, now time.Time) error {
	if !programType.IsValid() {
		return dErrors.Newf(dErrors.CodeInvariantViolation, "invalid program type %q", programType)
	}
	if c.Status.IsTerminal() {
		return c.transitionError("change_program_type")
	}
	if c.ProgramType == programType {
		return nil
	}
	c.ProgramType = programType
	c.touch(now)
	return nil
}

// Rename changes the display name, holding the 2-character minimum.
func (c *Client) Rename(name string, now time.Time) error {
	name = strings.TrimSpace(name)
	if len([]rune(name)) < 2 {
		return dErrors.New(dErrors.CodeInvariantViolation, "client name must have at least 2 characters")
	}
	c.Name = name
	c.touch(now)
	return nil
}

// UpdateContactInfo replaces the email and/or phone. Nil arguments leave the
// corresponding field untouched.
func (c *Client) UpdateContactInfo(email *domain.Email, phone *domain.PhoneNumber, now time.Time) {
	changed := false
	if email != nil && !email.IsZero() {
		c.Email = *email
		changed = true
	}
	if phone != nil {
		c.Phone = phone
		changed = true
	}
	if changed {
		c.touch(now)
	}
}

// AddNote appends one timestamped line to the notes log. Blank text is a
// no-op. Existing notes are never rewritten.
func (c *Client) AddNote(text string, now time.Time) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	line := fmt.Sprintf("[%s] %s", now.UTC().Format(time.RFC3339), text)
	if c.Notes == "" {
		c.Notes = line
	} else {
		c.Notes = c.Notes + "\n" + line
	}
	c.touch(now)
}

// SetMetadata upserts one metadata key.
func (c *Client) SetMetadata(key string, value any, now time.Time) {
	if c.Metadata == nil {
		c.Metadata = make(map[string]any)
	}
	c.Metadata[key] = value
	c.touch(now)
}

func (c *Client) IsActive() bool {
	return c.Status == StatusActive
}

// ProgramDurationDays returns whole days since the client was created.
func (c *Client) ProgramDurationDays(now time.Time) int {
	d := now.Sub(c.CreatedAt)
	if d < 0 {
		return 0
	}
	return int(d.Hours() / 24)
}

// Clone returns a deep copy. Stores hand out clones so no caller aliases
// another caller's load-mutate-save span.
func (c *Client) Clone() *Client {
	clone := *c
	if c.Phone != nil {
		phone := *c.Phone
		clone.Phone = &phone
	}
	if c.Metadata != nil {
		clone.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

// touch refreshes UpdatedAt without ever moving it backwards.
func (c *Client) touch(now time.Time) {
	if now.After(c.UpdatedAt) {
		c.UpdatedAt = now
	}
}

func (c *Client) transitionError(operation string) error {
	return dErrors.Newf(dErrors.CodeInvalidStatus, "cannot %s client in status %q", operation, c.Status).
		WithDetail("operation", operation).
		WithDetail("current_status", c.Status.String())
}
