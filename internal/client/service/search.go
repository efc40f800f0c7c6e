package service

import (
	"context"

	"ngx/internal/client/models"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/requestcontext"
)

// SearchClients lists clients under exactly one filter mode: free-text
// query, status, program type, or none (all clients). The mode picks the
// matching store method pair so results and total_count share a predicate.
func (s *Service) SearchClients(ctx context.Context, req *models.SearchClientsRequest) (*models.SearchClientsResult, error) {
	ctx, span := s.tracer.Start(ctx, "client.search")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	page := models.Page{Limit: req.Limit, Offset: req.Offset}

	var (
		clients []*models.Client
		total   int
		err     error
	)
	switch {
	case req.Query != "":
		if clients, err = s.store.Search(ctx, req.Query, page); err == nil {
			total, err = s.store.CountBySearch(ctx, req.Query)
		}
	case req.Status != "":
		status := models.ClientStatus(req.Status)
		if clients, err = s.store.FindByStatus(ctx, status, page); err == nil {
			total, err = s.store.CountByStatus(ctx, status)
		}
	case req.ProgramType != "":
		programType := models.ProgramType(req.ProgramType)
		if clients, err = s.store.FindByProgramType(ctx, programType, page); err == nil {
			total, err = s.store.CountByProgramType(ctx, programType)
		}
	default:
		if clients, err = s.store.FindAll(ctx, page); err == nil {
			total, err = s.store.Count(ctx)
		}
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to search clients")
	}

	now := requestcontext.Now(ctx)
	responses := make([]*models.ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, models.NewClientResponse(c, now))
	}

	if s.metrics != nil {
		s.metrics.SearchesExecuted.Inc()
	}
	return models.NewSearchClientsResult(responses, total, req.Limit, req.Offset), nil
}
