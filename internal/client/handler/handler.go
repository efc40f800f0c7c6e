// Package handler is the thin HTTP layer over the client service. It decodes
// requests, delegates, and translates domain errors; business rules stay in
// the service and entity.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"ngx/internal/client/models"
	"ngx/internal/client/service"
	"ngx/pkg/domain"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/platform/httputil"
	"ngx/pkg/requestcontext"
)

// Service defines the client operations the HTTP layer needs.
type Service interface {
	CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.ClientResponse, error)
	GetClient(ctx context.Context, id domain.ClientID) (*models.ClientResponse, error)
	UpdateClient(ctx context.Context, id domain.ClientID, req *models.UpdateClientRequest) (*models.ClientResponse, error)
	DeleteClient(ctx context.Context, id domain.ClientID) (bool, error)
	SearchClients(ctx context.Context, req *models.SearchClientsRequest) (*models.SearchClientsResult, error)
	Analytics(ctx context.Context, req service.AnalyticsRequest) (*models.AnalyticsReport, error)
}

// Handler wires client endpoints to the client service.
type Handler struct {
	service Service
	logger  *slog.Logger
}

// New constructs a client handler with its dependencies.
func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts client endpoints on the router.
func (h *Handler) Register(r chi.Router) {
	r.Route("/clients", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleSearch)
		r.Get("/analytics", h.HandleAnalytics)
		r.Get("/{id}", h.HandleGet)
		r.Patch("/{id}", h.HandleUpdate)
		r.Delete("/{id}", h.HandleDelete)
	})
}

// HandleCreate handles POST /clients.
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	req, ok := httputil.DecodeAndPrepare[models.CreateClientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	resp, err := h.service.CreateClient(ctx, req)
	if err != nil {
		h.logger.WarnContext(ctx, "client creation rejected",
			"request_id", requestID,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, resp)
}

// HandleGet handles GET /clients/{id}.
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.clientID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.GetClient(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleUpdate handles PATCH /clients/{id}.
func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	id, ok := h.clientID(w, r)
	if !ok {
		return
	}

	req, ok := httputil.DecodeAndPrepare[models.UpdateClientRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}
	if req.IsEmpty() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "update request contains no fields"))
		return
	}

	resp, err := h.service.UpdateClient(ctx, id, req)
	if err != nil {
		h.logger.WarnContext(ctx, "client update rejected",
			"request_id", requestID,
			"client_id", id,
			"error", err,
		)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, resp)
}

// HandleDelete handles DELETE /clients/{id}.
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.clientID(w, r)
	if !ok {
		return
	}

	deleted, err := h.service.DeleteClient(ctx, id)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if !deleted {
		httputil.WriteError(w, dErrors.New(dErrors.CodeNotFound, "client not found"))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleSearch handles GET /clients with optional filter query parameters.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	req := &models.SearchClientsRequest{
		Query:       q.Get("query"),
		Status:      q.Get("status"),
		ProgramType: q.Get("program_type"),
	}
	var err error
	if req.Limit, err = intParam(q.Get("limit")); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "limit must be an integer"))
		return
	}
	if req.Offset, err = intParam(q.Get("offset")); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "offset must be an integer"))
		return
	}

	result, err := h.service.SearchClients(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, result)
}

// HandleAnalytics handles GET /clients/analytics.
func (h *Handler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	q := r.URL.Query()
	req := service.AnalyticsRequest{ProgramType: q.Get("program_type")}
	var err error
	if req.StartDate, err = dateParam(q.Get("start_date")); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "start_date must be RFC 3339 or YYYY-MM-DD"))
		return
	}
	if req.EndDate, err = dateParam(q.Get("end_date")); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "end_date must be RFC 3339 or YYYY-MM-DD"))
		return
	}

	report, err := h.service.Analytics(ctx, req)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) clientID(w http.ResponseWriter, r *http.Request) (domain.ClientID, bool) {
	id, err := domain.ParseClientID(chi.URLParam(r, "id"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "invalid client id"))
		return domain.ClientID{}, false
	}
	return id, true
}

func intParam(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}

func dateParam(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		t, err = time.Parse("2006-01-02", raw)
		if err != nil {
			return nil, err
		}
	}
	return &t, nil
}
