package service

import (
	"context"

	"ngx/internal/client/models"
	"ngx/pkg/domain"
	"ngx/pkg/requestcontext"
)

// GetClient loads one client by id. Side-effect free.
func (s *Service) GetClient(ctx context.Context, id domain.ClientID) (*models.ClientResponse, error) {
	ctx, span := s.tracer.Start(ctx, "client.get")
	defer span.End()

	client, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, id, "load client")
	}
	return models.NewClientResponse(client, requestcontext.Now(ctx)), nil
}
