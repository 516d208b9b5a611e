package handler

import (
	"net/http"

	"github.com/boddenberg/pj-taxsim-go/internal/service"
)

// ============================================================
// 7. Dev Tools
// ============================================================

func devSampleLedgerHandler(devSvc *service.DevToolsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/devtools/sample-ledger")
		defer span.End()

		writeJSON(w, http.StatusOK, devSvc.SampleLedger(ctx))
	}
}

func devMetricsSnapshotHandler(devSvc *service.DevToolsService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/devtools/metrics-snapshot")
		defer span.End()

		writeJSON(w, http.StatusOK, devSvc.MetricsSnapshot(ctx))
	}
}
