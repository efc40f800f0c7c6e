package service

import (
	"context"

	"ngx/internal/events"
	"ngx/pkg/domain"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/requestcontext"
)

// DeleteClient removes a client permanently. Deleting an absent id is not an
// error: it returns false and publishes nothing. Deletion is irreversible
// and distinct from cancellation, which is a status.
func (s *Service) DeleteClient(ctx context.Context, id domain.ClientID) (bool, error) {
	ctx, span := s.tracer.Start(ctx, "client.delete")
	defer span.End()

	deleted, err := s.store.Delete(ctx, id)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete client")
	}
	if !deleted {
		return false, nil
	}

	s.publish(ctx, events.ClientDeleted(id, requestcontext.Now(ctx)))

	s.logger.InfoContext(ctx, "client deleted", "client_id", id)
	if s.metrics != nil {
		s.metrics.ClientsDeleted.Inc()
	}
	return true, nil
}
