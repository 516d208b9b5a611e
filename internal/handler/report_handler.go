package handler

import (
	"encoding/json"
	"net/http"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/service"

	"go.uber.org/zap"
)

// ============================================================
// 6. Relatórios
// ============================================================

func reportComparisonHandler(reportSvc *service.ReportService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/reports/comparison")
		defer span.End()

		if !reportSvc.Enabled() {
			writeError(w, http.StatusServiceUnavailable, "Exportação de PDF não está habilitada neste ambiente")
			return
		}

		var req domain.SimulationRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		pdf, err := reportSvc.ComparisonPDF(ctx, &req)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="comparativo-regimes.pdf"`)
		w.WriteHeader(http.StatusOK)
		w.Write(pdf)
	}
}
