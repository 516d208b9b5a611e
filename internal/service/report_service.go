package service

import (
	"context"
	"fmt"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var reportTracer = otel.Tracer("service/report")

// ReportService runs a simulation and renders the comparison as a PDF
// document.
type ReportService struct {
	simulations *SimulationService
	renderer    port.ReportRenderer // nil when no Gotenberg endpoint is configured
	logger      *zap.Logger
}

// NewReportService creates the report service. renderer may be nil;
// the endpoint then reports the feature as disabled.
func NewReportService(simulations *SimulationService, renderer port.ReportRenderer, logger *zap.Logger) *ReportService {
	return &ReportService{
		simulations: simulations,
		renderer:    renderer,
		logger:      logger,
	}
}

// Enabled reports whether PDF export is configured for this deployment.
func (s *ReportService) Enabled() bool {
	return s.renderer != nil
}

// ComparisonPDF runs the simulation and converts the comparison
// document to PDF.
func (s *ReportService) ComparisonPDF(ctx context.Context, req *domain.SimulationRequest) ([]byte, error) {
	ctx, span := reportTracer.Start(ctx, "ReportService.ComparisonPDF")
	defer span.End()

	result, err := s.simulations.Run(ctx, req)
	if err != nil {
		return nil, err
	}

	pdf, err := s.renderer.RenderComparison(ctx, result)
	if err != nil {
		return nil, fmt.Errorf("render comparison: %w", err)
	}

	s.logger.Info("comparison report rendered",
		zap.String("activity", string(req.Activity)),
		zap.Int("pdf_bytes", len(pdf)),
	)
	return pdf, nil
}
