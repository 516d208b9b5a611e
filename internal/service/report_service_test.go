package service_test

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/cache"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockRenderer struct {
	pdf   []byte
	err   error
	calls int
}

func (m *mockRenderer) RenderComparison(_ context.Context, _ *domain.ComparisonResult) ([]byte, error) {
	m.calls++
	return m.pdf, m.err
}

// --- Tests ---

func newSimulations() *service.SimulationService {
	return service.NewSimulationService(
		&mockSimulationStore{},
		cache.New[any](time.Minute),
		observability.NewMetrics(),
		zap.NewNop(),
	)
}

func TestReportEnabled(t *testing.T) {
	disabled := service.NewReportService(newSimulations(), nil, zap.NewNop())
	if disabled.Enabled() {
		t.Error("expected report service disabled without a renderer")
	}

	enabled := service.NewReportService(newSimulations(), &mockRenderer{}, zap.NewNop())
	if !enabled.Enabled() {
		t.Error("expected report service enabled with a renderer")
	}
}

func TestComparisonPDF(t *testing.T) {
	renderer := &mockRenderer{pdf: []byte("%PDF-1.4 fake")}
	svc := service.NewReportService(newSimulations(), renderer, zap.NewNop())

	pdf, err := svc.ComparisonPDF(context.Background(), &domain.SimulationRequest{
		Activity: domain.ActivityServicos,
		Summary:  &domain.FinancialSummary{Revenue: 600_000, Payroll: 180_000},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if !bytes.Equal(pdf, renderer.pdf) {
		t.Error("expected renderer bytes passed through")
	}
	if renderer.calls != 1 {
		t.Errorf("expected 1 render call, got %d", renderer.calls)
	}
}

func TestComparisonPDF_InvalidRequest(t *testing.T) {
	renderer := &mockRenderer{pdf: []byte("%PDF")}
	svc := service.NewReportService(newSimulations(), renderer, zap.NewNop())

	_, err := svc.ComparisonPDF(context.Background(), &domain.SimulationRequest{
		Activity: domain.Activity("banana"),
		Summary:  &domain.FinancialSummary{Revenue: 100_000},
	})

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if renderer.calls != 0 {
		t.Errorf("expected no render call on invalid request, got %d", renderer.calls)
	}
}

func TestComparisonPDF_RendererError(t *testing.T) {
	renderer := &mockRenderer{err: errors.New("gotenberg unavailable")}
	svc := service.NewReportService(newSimulations(), renderer, zap.NewNop())

	_, err := svc.ComparisonPDF(context.Background(), &domain.SimulationRequest{
		Activity: domain.ActivityServicos,
		Summary:  &domain.FinancialSummary{Revenue: 600_000},
	})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}
