package service

import (
	"context"
	"fmt"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/engine"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/port"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var simTracer = otel.Tracer("service/simulation")

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// SimulationService runs the four-regime comparison and manages a
// user's saved simulations.
type SimulationService struct {
	store   port.SimulationStore
	cache   port.Cache[any]
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewSimulationService creates the simulation service with all dependencies injected.
func NewSimulationService(store port.SimulationStore, cache port.Cache[any], metrics *observability.Metrics, logger *zap.Logger) *SimulationService {
	return &SimulationService{
		store:   store,
		cache:   cache,
		metrics: metrics,
		logger:  logger,
	}
}

// ============================================================
// Run — POST /v1/simulations/run
// ============================================================

// Run classifies the ledger, aggregates it, computes the three current
// regimes concurrently, picks the cheapest as baseline and projects the
// dual-VAT reform on top of it.
func (s *SimulationService) Run(ctx context.Context, req *domain.SimulationRequest) (*domain.ComparisonResult, error) {
	ctx, span := simTracer.Start(ctx, "SimulationService.Run")
	defer span.End()
	span.SetAttributes(attribute.String("activity", string(req.Activity)))

	start := time.Now()
	defer func() {
		s.metrics.RecordRequestDuration("simulation", time.Since(start))
	}()

	if !req.Activity.Valid() {
		return nil, &domain.ErrValidation{Field: "activity", Message: "Atividade inválida"}
	}
	if len(req.Lines) == 0 && req.Summary == nil {
		return nil, &domain.ErrValidation{Field: "body", Message: "Informe as linhas do demonstrativo ou o resumo financeiro"}
	}

	presumidoRates := domain.DefaultPresumidoRates()
	if req.RatesPresumido != nil {
		presumidoRates = *req.RatesPresumido
	}
	realRates := domain.DefaultRealRates()
	if req.RatesReal != nil {
		realRates = *req.RatesReal
	}
	reformCfg := domain.DefaultReformRates()
	if req.Reform != nil {
		reformCfg = *req.Reform
	}

	lines := engine.Classify(req.Lines)
	lines = engine.ApplyDefaultCreditPct(lines, reformCfg.DefaultCreditPct)

	// An explicit summary wins; the lines then only feed the per-line
	// reform credits and the LALUR adjustments.
	var summary domain.FinancialSummary
	if req.Summary != nil {
		summary = *req.Summary
	} else {
		summary = engine.Aggregate(lines)
	}
	additions, exclusions := engine.Adjustments(lines)

	// The three current regimes are independent of each other; only the
	// reform projection needs the selector's output.
	var simples, presumido, lucroReal domain.RegimeResult

	g := errgroup.Group{}
	g.Go(func() error {
		simples = engine.CalculateSimples(engine.SimplesInput{
			Summary:  summary,
			Activity: req.Activity,
			Rates:    presumidoRates,
		})
		return nil
	})
	g.Go(func() error {
		presumido = engine.CalculatePresumido(engine.PresumidoInput{
			Summary:  summary,
			Activity: req.Activity,
			Rates:    presumidoRates,
		})
		return nil
	})
	g.Go(func() error {
		lucroReal = engine.CalculateReal(engine.RealInput{
			Summary:    summary,
			Activity:   req.Activity,
			Rates:      realRates,
			Additions:  additions,
			Exclusions: exclusions,
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := []domain.RegimeResult{simples, presumido, lucroReal}
	best := engine.SelectBest(results)

	reform := engine.CalculateReforma(engine.ReformaInput{
		Summary:  summary,
		Lines:    lines,
		Config:   reformCfg,
		Baseline: best,
	})

	s.metrics.IncrSimulation(best.Regime)

	return &domain.ComparisonResult{
		Activity:    req.Activity,
		Lines:       lines,
		Summary:     summary,
		Results:     results,
		Best:        best,
		Reform:      reform,
		Alerts:      buildAlerts(summary, lines, results),
		GeneratedAt: time.Now(),
	}, nil
}

// buildAlerts collects cross-regime advisories for the response header.
// Per-regime caveats live in each result's Notes.
func buildAlerts(summary domain.FinancialSummary, lines []domain.LineItem, results []domain.RegimeResult) []string {
	var alerts []string

	if summary.Revenue <= 0 {
		alerts = append(alerts, "Receita bruta zerada: os totais servem apenas para conferência das alíquotas.")
	}

	for _, r := range results {
		if r.Regime == domain.RegimeSimples && r.Blocked {
			alerts = append(alerts, "Simples Nacional indisponível para o faturamento informado.")
		}
	}

	var analytical, unrecognized int
	for _, line := range lines {
		if line.Kind != domain.LineAnalytical {
			continue
		}
		analytical++
		if line.Tag == domain.TagOther {
			unrecognized++
		}
	}
	if analytical > 0 && unrecognized*3 > analytical {
		alerts = append(alerts, "Várias linhas do demonstrativo não foram reconhecidas; revise a classificação antes de comparar os regimes.")
	}

	return alerts
}

// ============================================================
// Save — POST /v1/simulations
// ============================================================

func (s *SimulationService) Save(ctx context.Context, userID string, req *domain.SaveSimulationRequest) (*domain.SavedSimulation, error) {
	ctx, span := simTracer.Start(ctx, "SimulationService.Save")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if req.Name == "" {
		return nil, &domain.ErrValidation{Field: "name", Message: "Nome é obrigatório"}
	}

	// Saved simulations carry a frozen result so the listing can show
	// totals without recomputing.
	result, err := s.Run(ctx, &req.Simulation)
	if err != nil {
		return nil, err
	}

	sim := &domain.SavedSimulation{
		ID:        uuid.New().String(),
		UserID:    userID,
		Name:      req.Name,
		Activity:  req.Simulation.Activity,
		Request:   req.Simulation,
		Result:    result,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.SaveSimulation(ctx, sim); err != nil {
		return nil, fmt.Errorf("save simulation: %w", err)
	}

	s.cache.DeletePrefix("simulations:" + userID)

	s.logger.Info("simulation saved",
		zap.String("user_id", userID),
		zap.String("simulation_id", sim.ID),
		zap.String("name", sim.Name),
	)
	return sim, nil
}

// ============================================================
// List — GET /v1/simulations
// ============================================================

func (s *SimulationService) List(ctx context.Context, userID string, page, pageSize int) (*domain.ListResponse[domain.SavedSimulation], error) {
	ctx, span := simTracer.Start(ctx, "SimulationService.List")
	defer span.End()
	span.SetAttributes(attribute.String("user.id", userID))

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	cacheKey := fmt.Sprintf("simulations:%s:%d:%d", userID, page, pageSize)
	if cached, ok := s.cache.Get(cacheKey); ok {
		if resp, ok := cached.(*domain.ListResponse[domain.SavedSimulation]); ok {
			s.metrics.IncrCacheHit("simulations")
			return resp, nil
		}
	}
	s.metrics.IncrCacheMiss("simulations")

	offset := (page - 1) * pageSize
	items, err := s.store.ListSimulations(ctx, userID, pageSize, offset)
	if err != nil {
		return nil, fmt.Errorf("list simulations: %w", err)
	}
	total, err := s.store.CountSimulations(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count simulations: %w", err)
	}

	resp := &domain.ListResponse[domain.SavedSimulation]{
		Data:     items,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  offset+len(items) < total,
	}
	s.cache.Set(cacheKey, resp)
	return resp, nil
}

// ============================================================
// Get / Delete — /v1/simulations/{id}
// ============================================================

func (s *SimulationService) Get(ctx context.Context, userID, simulationID string) (*domain.SavedSimulation, error) {
	ctx, span := simTracer.Start(ctx, "SimulationService.Get")
	defer span.End()

	return s.store.GetSimulation(ctx, userID, simulationID)
}

func (s *SimulationService) Delete(ctx context.Context, userID, simulationID string) error {
	ctx, span := simTracer.Start(ctx, "SimulationService.Delete")
	defer span.End()

	// Look up first so a wrong id comes back as 404, not a silent no-op.
	if _, err := s.store.GetSimulation(ctx, userID, simulationID); err != nil {
		return err
	}
	if err := s.store.DeleteSimulation(ctx, userID, simulationID); err != nil {
		return fmt.Errorf("delete simulation: %w", err)
	}

	s.cache.DeletePrefix("simulations:" + userID)

	s.logger.Info("simulation deleted",
		zap.String("user_id", userID),
		zap.String("simulation_id", simulationID),
	)
	return nil
}
