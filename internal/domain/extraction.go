package domain

// ============================================================
// Extraction — AI and spreadsheet ingestion of DRE lines
// ============================================================

// ExtractTextRequest is the body for POST /v1/extract/text.
type ExtractTextRequest struct {
	Text string `json:"text"`
}

// ExtractResponse is returned by both extraction endpoints: the parsed
// lines already ran through the classifier, so tags are filled in and
// the summary reflects them.
type ExtractResponse struct {
	Lines   []LineItem       `json:"lines"`
	Summary FinancialSummary `json:"summary"`
	Source  string           `json:"source"` // gemini, agent, xlsx, xls, csv
	Notes   []string         `json:"notes,omitempty"`
}

// ExtractedLine is the schema the LLM is asked to produce for each
// statement row. Tags are left to the classifier on purpose: models
// are good at transcription, the keyword rules stay deterministic.
type ExtractedLine struct {
	Description  string  `json:"description"`
	Value        float64 `json:"value"`
	Section      string  `json:"section,omitempty"`
	Synthetic    bool    `json:"synthetic,omitempty"`
	AggregateRow bool    `json:"aggregateRow,omitempty"`
	Level        int     `json:"level,omitempty"`
}

// ExtractionUsage tracks LLM token consumption for cost monitoring.
type ExtractionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// AgentExtractRequest is the payload sent to the extraction agent
// service.
type AgentExtractRequest struct {
	Text string `json:"text"`
}

// AgentExtractResponse is the extraction agent's reply.
type AgentExtractResponse struct {
	Lines []ExtractedLine  `json:"lines"`
	Usage *ExtractionUsage `json:"usage,omitempty"`
}
