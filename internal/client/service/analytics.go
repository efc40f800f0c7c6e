package service

import (
	"context"
	"time"

	"ngx/internal/client/models"
	dErrors "ngx/pkg/domain-errors"
	"ngx/pkg/requestcontext"
)

// AnalyticsRequest bounds an analytics report. All fields optional.
type AnalyticsRequest struct {
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	ProgramType string     `json:"program_type,omitempty"`
}

// Analytics aggregates counts and rates over the filtered client set.
// Purely a read: it mutates nothing and publishes nothing.
func (s *Service) Analytics(ctx context.Context, req AnalyticsRequest) (*models.AnalyticsReport, error) {
	ctx, span := s.tracer.Start(ctx, "client.analytics")
	defer span.End()

	filter := models.AnalyticsFilter{StartDate: req.StartDate, EndDate: req.EndDate}
	if req.ProgramType != "" {
		programType, err := models.ParseProgramType(req.ProgramType)
		if err != nil {
			return nil, err
		}
		filter.ProgramType = &programType
	}
	if req.StartDate != nil && req.EndDate != nil && req.EndDate.Before(*req.StartDate) {
		return nil, dErrors.New(dErrors.CodeValidation, "end_date must not be before start_date")
	}

	data, err := s.store.AnalyticsData(ctx, filter)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to compute analytics")
	}

	if s.metrics != nil {
		s.metrics.AnalyticsRuns.Inc()
	}

	report := &models.AnalyticsReport{
		AnalyticsData: data,
		GeneratedAt:   requestcontext.Now(ctx),
		StartDate:     req.StartDate,
		EndDate:       req.EndDate,
	}
	if filter.ProgramType != nil {
		pt := filter.ProgramType.String()
		report.ProgramType = &pt
	}
	return report, nil
}
