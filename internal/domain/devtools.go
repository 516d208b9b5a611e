package domain

// ============================================================
// Dev Tools — endpoints for development/testing
// ============================================================

// DevSampleLedgerResponse is returned by GET /v1/devtools/sample-ledger.
// It carries a ready-to-simulate demo DRE so the frontend can be tried
// without uploading a spreadsheet.
type DevSampleLedgerResponse struct {
	Name     string     `json:"name"`
	Activity Activity   `json:"activity"`
	Lines    []LineItem `json:"lines"`
}

// DevMetricsSnapshot is returned by GET /v1/devtools/metrics-snapshot.
// Counter values come straight from the Prometheus registry.
type DevMetricsSnapshot struct {
	SimulationsTotal   float64 `json:"simulationsTotal"`
	ExtractionRequests float64 `json:"extractionRequests"`
	ExtractionTokens   float64 `json:"extractionTokens"`
	CacheHits          float64 `json:"cacheHits"`
	CacheMisses        float64 `json:"cacheMisses"`
	ExternalErrors     float64 `json:"externalErrors"`
}
