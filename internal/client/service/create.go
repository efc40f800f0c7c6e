package service

import (
	"context"

	"ngx/internal/client/models"
	"ngx/internal/events"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/requestcontext"
)

// CreateClient registers a new coaching client. Email uniqueness is checked
// before construction; the event is published only after the save succeeds,
// so a failed save leaves no partial state visible anywhere.
func (s *Service) CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error) {
	ctx, span := s.tracer.Start(ctx, "client.create")
	defer span.End()

	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email, err := models.ParseEmail(req.Email)
	if err != nil {
		return nil, err
	}

	taken, err := s.store.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email uniqueness")
	}
	if taken {
		return nil, dErrors.New(dErrors.CodeConflict, "client with this email already exists").
			WithDetail("email", email.String())
	}

	phone, err := models.ParsePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	now := requestcontext.Now(ctx)
	client, err := models.NewClient(req.Name, email, phone, models.ProgramType(req.ProgramType), models.ClientStatus(req.Status), now)
	if err != nil {
		if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
			return nil, dErrors.New(dErrors.CodeValidation, dErrors.FromError(err).Message)
		}
		return nil, err
	}
	if req.Notes != "" {
		client.AddNote(req.Notes, now)
	}

	if err := s.store.Save(ctx, client); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save client")
	}

	s.publish(ctx, events.ClientCreated(client.ID, client.Email.String(), client.ProgramType.String(), now))

	s.logger.InfoContext(ctx, "client created",
		"client_id", client.ID,
		"program_type", client.ProgramType,
		"status", client.Status,
	)
	if s.metrics != nil {
		s.metrics.ClientsCreated.Inc()
	}

	return models.NewClientResponse(client, now), nil
}
