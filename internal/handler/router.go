package handler

import (
	"net/http"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/port"
	"github.com/boddenberg/pj-taxsim-go/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
// Routes follow the API contract defined for the simulator frontend.
//
// authSvc and devSvc may be nil: without Supabase the auth subtree
// answers 503 and the persisted routes are not mounted; without
// DEV_MODE the devtools routes are not mounted.
func NewRouter(
	simSvc *service.SimulationService,
	extractSvc *service.ExtractionService,
	ratesSvc *service.RatesService,
	reportSvc *service.ReportService,
	authSvc *service.AuthService,
	devSvc *service.DevToolsService,
	store port.SimulationStore,
	metrics *observability.Metrics,
	logger *zap.Logger,
) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Heartbeat("/ping"))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(store, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- API v1 ---
	r.Route("/v1", func(r chi.Router) {

		// =============================================
		// 1. 🧮 Simulador de Regimes
		// POST /v1/simulations/run
		// =============================================
		r.Post("/simulations/run", simulationRunHandler(simSvc, logger))

		// =============================================
		// 2. 📐 Alíquotas
		// GET /v1/rates/defaults
		// =============================================
		r.Get("/rates/defaults", ratesDefaultsHandler(ratesSvc))

		// =============================================
		// 3. 📥 Extração de Demonstrativos
		// POST /v1/extract/text
		// POST /v1/extract/file
		// =============================================
		r.Post("/extract/text", extractTextHandler(extractSvc, logger))
		r.Post("/extract/file", extractFileHandler(extractSvc, logger))

		// =============================================
		// 4. 🔐 Autenticação
		// =============================================
		r.Route("/auth", func(r chi.Router) {
			if authSvc == nil {
				r.Handle("/*", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					writeError(w, http.StatusServiceUnavailable, "auth service unavailable: Supabase not configured")
				}))
				return
			}
			// Public routes
			r.Post("/register", authRegisterHandler(authSvc, logger))
			r.Post("/login", authLoginHandler(authSvc, logger))
			r.Post("/refresh", authRefreshHandler(authSvc, logger))
			r.Post("/password/reset-request", authPasswordResetRequestHandler(authSvc, logger))
			r.Post("/password/reset-confirm", authPasswordResetConfirmHandler(authSvc, logger))

			// Protected routes
			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))
				r.Post("/logout", authLogoutHandler(authSvc, logger))
				r.Put("/password", authChangePasswordHandler(authSvc, logger))
				r.Get("/profile", authProfileHandler(authSvc, logger))
				r.Put("/profile", authUpdateProfileHandler(authSvc, logger))
			})
		})

		// =============================================
		// 5. 💾 Simulações Salvas e Presets (protected)
		// =============================================
		if authSvc != nil {
			r.Group(func(r chi.Router) {
				r.Use(JWTAuthMiddleware(authSvc, logger))

				r.Post("/simulations", saveSimulationHandler(simSvc, logger))
				r.Get("/simulations", listSimulationsHandler(simSvc, logger))
				r.Get("/simulations/{simulationId}", getSimulationHandler(simSvc, logger))
				r.Delete("/simulations/{simulationId}", deleteSimulationHandler(simSvc, logger))

				r.Post("/rates/presets", savePresetHandler(ratesSvc, logger))
				r.Get("/rates/presets", listPresetsHandler(ratesSvc, logger))
				r.Get("/rates/presets/{presetId}", getPresetHandler(ratesSvc, logger))
				r.Delete("/rates/presets/{presetId}", deletePresetHandler(ratesSvc, logger))

				// =============================================
				// 6. 📄 Relatórios
				// POST /v1/reports/comparison
				// =============================================
				r.Post("/reports/comparison", reportComparisonHandler(reportSvc, logger))
			})
		}

		// =============================================
		// 7. 🛠 Dev Tools (DEV_MODE only)
		// =============================================
		if devSvc != nil {
			r.Get("/devtools/sample-ledger", devSampleLedgerHandler(devSvc))
			r.Get("/devtools/metrics-snapshot", devMetricsSnapshotHandler(devSvc))
		}
	})

	return r
}

// ============================================================
// Operational handlers
// ============================================================

// healthzHandler probes the database with a cheap count so the
// orchestrator can tell a degraded deployment from a dead one.
func healthzHandler(store port.SimulationStore, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		now := time.Now().Format(time.RFC3339)

		services := []domain.ServiceHealth{
			{Name: "taxsim-api", Status: "healthy", LatencyMs: 0, UptimePercent: 99.99, LastChecked: now},
		}

		if store != nil {
			start := time.Now()
			_, err := store.CountSimulations(ctx, "health-check")
			latency := time.Since(start).Milliseconds()
			status := "healthy"
			if err != nil {
				status = "degraded"
				logger.Warn("healthz: database probe failed", zap.Error(err))
			}
			services = append(services, domain.ServiceHealth{
				Name: "supabase", Status: status, LatencyMs: latency,
				UptimePercent: 99.9, LastChecked: now,
			})
		}

		overallStatus := "healthy"
		for _, s := range services {
			if s.Status == "unhealthy" {
				overallStatus = "unhealthy"
				break
			}
			if s.Status == "degraded" {
				overallStatus = "degraded"
			}
		}

		writeJSON(w, http.StatusOK, domain.HealthStatus{
			Status:   overallStatus,
			Services: services,
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
