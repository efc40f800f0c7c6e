package models

import (
	"time"
)

// ClientResponse is the data shape returned across the use-case boundary.
// It is a snapshot: reading it never reaches back into the entity.
type ClientResponse struct {
	ID                  string         `json:"id"`
	Name                string         `json:"name"`
	Email               string         `json:"email"`
	Phone               string         `json:"phone,omitempty"`
	PhoneFormatted      string         `json:"phone_formatted,omitempty"`
	ProgramType         string         `json:"program_type"`
	Status              string         `json:"status"`
	IsActive            bool           `json:"is_active"`
	ProgramDurationDays int            `json:"program_duration_days"`
	Notes               string         `json:"notes,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
}

// NewClientResponse maps the aggregate to its boundary shape.
func NewClientResponse(c *Client, now time.Time) *ClientResponse {
	resp := &ClientResponse{
		ID:                  c.ID.String(),
		Name:                c.Name,
		Email:               c.Email.String(),
		ProgramType:         c.ProgramType.String(),
		Status:              c.Status.String(),
		IsActive:            c.IsActive(),
		ProgramDurationDays: c.ProgramDurationDays(now),
		Notes:               c.Notes,
		Metadata:            c.Metadata,
		CreatedAt:           c.CreatedAt,
		UpdatedAt:           c.UpdatedAt,
	}
	if c.Phone != nil {
		resp.Phone = c.Phone.String()
		resp.PhoneFormatted = c.Phone.Formatted()
	}
	return resp
}

// SearchClientsResult is one page of search results with derived paging info.
type SearchClientsResult struct {
	Clients     []*ClientResponse `json:"clients"`
	TotalCount  int               `json:"total_count"`
	Limit       int               `json:"limit"`
	Offset      int               `json:"offset"`
	HasMore     bool              `json:"has_more"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
}

// NewSearchClientsResult derives paging info from limit/offset/total.
func NewSearchClientsResult(clients []*ClientResponse, total, limit, offset int) *SearchClientsResult {
	result := &SearchClientsResult{
		Clients:     clients,
		TotalCount:  total,
		Limit:       limit,
		Offset:      offset,
		HasMore:     offset+len(clients) < total,
		CurrentPage: 1,
		TotalPages:  0,
	}
	if limit > 0 {
		result.CurrentPage = offset/limit + 1
		result.TotalPages = (total + limit - 1) / limit
	}
	return result
}
