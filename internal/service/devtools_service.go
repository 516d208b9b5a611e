package service

import (
	"context"
	"math"
	"math/rand"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/engine"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var devTracer = otel.Tracer("service/devtools")

// ============================================================
// Dev Tools
// ============================================================

// DevToolsService backs the DEV_MODE-only endpoints: a demo ledger so
// the frontend can be tried without uploading a spreadsheet, and a
// counter snapshot for quick inspection.
type DevToolsService struct {
	metrics *observability.Metrics
	cache   port.Cache[any]
	logger  *zap.Logger
}

// NewDevToolsService creates the devtools service.
func NewDevToolsService(metrics *observability.Metrics, cache port.Cache[any], logger *zap.Logger) *DevToolsService {
	return &DevToolsService{
		metrics: metrics,
		cache:   cache,
		logger:  logger,
	}
}

// SampleLedger returns a ready-to-simulate DRE for a services company.
// Amounts are scaled by a random factor per cache window so repeated
// calls within the TTL stay stable for the frontend.
func (s *DevToolsService) SampleLedger(ctx context.Context) *domain.DevSampleLedgerResponse {
	_, span := devTracer.Start(ctx, "DevToolsService.SampleLedger")
	defer span.End()

	const cacheKey = "devtools:sample-ledger"
	if cached, ok := s.cache.Get(cacheKey); ok {
		if resp, ok := cached.(*domain.DevSampleLedgerResponse); ok {
			s.metrics.IncrCacheHit("sample_ledger")
			return resp
		}
	}
	s.metrics.IncrCacheMiss("sample_ledger")

	scale := 0.8 + rand.Float64()*0.4

	amount := func(v float64) float64 {
		return math.Round(v * scale)
	}

	lines := []domain.LineItem{
		{Description: "Receita bruta de serviços", Value: amount(1_200_000), Level: 0},
		{Description: "Descontos incondicionais concedidos", Value: amount(-24_000), Level: 1},
		{Description: "ISS sobre serviços prestados", Value: amount(-60_000), Level: 1},
		{Description: "Receita líquida", Value: amount(1_116_000), Level: 0, AggregateRow: true, Kind: domain.LineSynthetic},
		{Description: "Custos dos serviços prestados", Value: amount(-420_000), Level: 1},
		{Description: "Lucro bruto", Value: amount(696_000), Level: 0, AggregateRow: true, Kind: domain.LineSynthetic},
		{Description: "Salários e ordenados", Value: amount(-264_000), Level: 1},
		{Description: "Pró-labore", Value: amount(-96_000), Level: 1},
		{Description: "Despesas administrativas", Value: amount(-120_000), Level: 1},
		{Description: "Despesas com marketing", Value: amount(-48_000), Level: 1},
		{Description: "Multas fiscais", Value: amount(-6_000), Level: 1, Adjustment: domain.AdjustmentAddition},
		{Description: "Receitas financeiras", Value: amount(18_000), Level: 1},
		{Description: "Despesas financeiras", Value: amount(-12_000), Level: 1},
		{Description: "Lucro líquido do exercício", Value: amount(168_000), Level: 0, AggregateRow: true, Kind: domain.LineSynthetic},
	}
	for i := range lines {
		lines[i].Section = domain.SectionDRE
		if lines[i].Kind == "" {
			lines[i].Kind = domain.LineAnalytical
		}
	}

	resp := &domain.DevSampleLedgerResponse{
		Name:     "DRE de demonstração (empresa de serviços)",
		Activity: domain.ActivityServicos,
		Lines:    engine.Classify(lines),
	}
	s.cache.Set(cacheKey, resp)

	s.logger.Info("DEV: sample ledger generated", zap.Float64("scale", scale))
	return resp
}

// MetricsSnapshot returns the current counter values.
func (s *DevToolsService) MetricsSnapshot(ctx context.Context) *domain.DevMetricsSnapshot {
	_, span := devTracer.Start(ctx, "DevToolsService.MetricsSnapshot")
	defer span.End()

	return s.metrics.Snapshot()
}
