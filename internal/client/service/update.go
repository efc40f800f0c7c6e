package service

import (
	"context"
	"time"

	"ngx/internal/client/models"
	"ngx/internal/events"
	"ngx/pkg/domain"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/requestcontext"
)

// UpdateClient applies a partial update. Only fields present in the request
// change; a requested status routes through the entity's guarded transition
// methods, so an illegal transition surfaces the same invalid_status error
// as calling the entity directly. A changed email is uniqueness-checked
// against all other clients.
func (s *Service) UpdateClient(ctx context.Context, id domain.ClientID, req *models.UpdateClientRequest) (*models.ClientResponse, error) {
	ctx, span := s.tracer.Start(ctx, "client.update")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	client, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, wrapStoreErr(err, id, "load client")
	}

	now := requestcontext.Now(ctx)

	if req.Email != nil {
		email, err := models.ParseEmail(*req.Email)
		if err != nil {
			return nil, err
		}
		if email != client.Email {
			taken, err := s.store.ExistsByEmail(ctx, email)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email uniqueness")
			}
			if taken {
				return nil, dErrors.New(dErrors.CodeConflict, "client with this email already exists").
					WithDetail("email", email.String())
			}
			client.UpdateContactInfo(&email, nil, now)
		}
	}
	if req.Phone != nil {
		phone, err := models.ParsePhone(*req.Phone)
		if err != nil {
			return nil, err
		}
		client.UpdateContactInfo(nil, phone, now)
	}
	if req.Name != nil {
		if err := client.Rename(*req.Name, now); err != nil {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.FromError(err).Message)
		}
	}
	if req.ProgramType != nil {
		if err := client.ChangeProgramType(models.ProgramType(*req.ProgramType), now); err != nil {
			return nil, err
		}
	}
	if req.Status != nil {
		if err := s.applyStatusChange(client, models.ClientStatus(*req.Status), now); err != nil {
			return nil, err
		}
	}
	if req.Metadata != nil {
		for key, value := range *req.Metadata {
			client.SetMetadata(key, value, now)
		}
	}

	if err := s.store.Save(ctx, client); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save client")
	}

	s.publish(ctx, events.ClientUpdated(client.ID, now))

	s.logger.InfoContext(ctx, "client updated", "client_id", client.ID)
	if s.metrics != nil {
		s.metrics.ClientsUpdated.Inc()
	}

	return models.NewClientResponse(client, now), nil
}

// applyStatusChange maps a requested status onto the guarded transition that
// reaches it. The entity decides legality; this only picks the operation.
func (s *Service) applyStatusChange(client *models.Client, desired models.ClientStatus, now time.Time) error {
	if client.Status == desired {
		return nil
	}
	switch desired {
	case models.StatusActive:
		if client.Status == models.StatusPaused {
			return client.Resume(now)
		}
		return client.Activate(now)
	case models.StatusInactive:
		return client.Deactivate(now)
	case models.StatusPaused:
		return client.Pause(now)
	case models.StatusCancelled:
		return client.Cancel(now)
	default:
		// No transition re-enters trial.
		return dErrors.Newf(dErrors.CodeInvalidStatus, "no transition reaches status %q", desired).
			WithDetail("operation", "update_status").
			WithDetail("current_status", client.Status.String())
	}
}
