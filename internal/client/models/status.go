package models

import (
	dErrors "ngx/pkg/domain-errors"
)

// ClientStatus is the lifecycle state of a coaching client.
//
// The state machine:
//   - trial/active/inactive/paused may activate (-> active) or deactivate (-> inactive)
//   - only active may pause; only paused may resume
//   - cancel is allowed from every state and cancelled is terminal
type ClientStatus string

const (
	StatusTrial     ClientStatus = "trial"
	StatusActive    ClientStatus = "active"
	StatusInactive  ClientStatus = "inactive"
	StatusPaused    ClientStatus = "paused"
	StatusCancelled ClientStatus = "cancelled"
)

// AllStatuses lists every valid status, in presentation order.
func AllStatuses() []ClientStatus {
	return []ClientStatus{StatusTrial, StatusActive, StatusInactive, StatusPaused, StatusCancelled}
}

func (s ClientStatus) IsValid() bool {
	switch s {
	case StatusTrial, StatusActive, StatusInactive, StatusPaused, StatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s ClientStatus) IsTerminal() bool {
	return s == StatusCancelled
}

// CanTransitionTo reports whether next is a legal transition from s. Trial is
// entry-only, paused is reachable only from active, and cancelled never
// transitions out.
func (s ClientStatus) CanTransitionTo(next ClientStatus) bool {
	if s.IsTerminal() {
		return false
	}
	switch next {
	case StatusActive, StatusInactive, StatusCancelled:
		return true
	case StatusPaused:
		return s == StatusActive
	}
	return false
}

func (s ClientStatus) String() string {
	return string(s)
}

// ParseClientStatus validates a raw status string.
func ParseClientStatus(raw string) (ClientStatus, error) {
	s := ClientStatus(raw)
	if !s.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown client status %q", raw)
	}
	return s, nil
}

// ProgramType is the closed set of NGX coaching programs.
type ProgramType string

const (
	ProgramPrime     ProgramType = "prime"
	ProgramLongevity ProgramType = "longevity"
	ProgramHybrid    ProgramType = "hybrid"
)

// AllProgramTypes lists every valid program type, in presentation order.
func AllProgramTypes() []ProgramType {
	return []ProgramType{ProgramPrime, ProgramLongevity, ProgramHybrid}
}

func (p ProgramType) IsValid() bool {
	switch p {
	case ProgramPrime, ProgramLongevity, ProgramHybrid:
		return true
	}
	return false
}

func (p ProgramType) String() string {
	return string(p)
}

// ParseProgramType validates a raw program type string.
func ParseProgramType(raw string) (ProgramType, error) {
	p := ProgramType(raw)
	if !p.IsValid() {
		return "", dErrors.Newf(dErrors.CodeValidation, "unknown program type %q", raw)
	}
	return p, nil
}
