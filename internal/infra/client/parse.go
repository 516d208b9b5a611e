package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
)

// ParseExtractedLines decodes the JSON a model produced for statement
// rows. Models occasionally wrap the array in an envelope or emit
// almost-JSON (trailing commas, single quotes, markdown fences), so a
// failed strict parse falls back to a repaired pass before giving up.
func ParseExtractedLines(raw string) ([]domain.ExtractedLine, error) {
	if lines, err := decodeLines(raw); err == nil {
		return lines, nil
	}

	repaired, err := jsonrepair.RepairJSON(raw)
	if err != nil {
		return nil, fmt.Errorf("repair model output: %w", err)
	}

	lines, err := decodeLines(repaired)
	if err != nil {
		return nil, fmt.Errorf("decode model output: %w", err)
	}
	return lines, nil
}

func decodeLines(raw string) ([]domain.ExtractedLine, error) {
	raw = strings.TrimSpace(raw)

	var lines []domain.ExtractedLine
	if err := json.Unmarshal([]byte(raw), &lines); err == nil {
		return lines, nil
	}

	// Some models insist on an envelope object despite the instruction.
	var envelope struct {
		Lines  []domain.ExtractedLine `json:"lines"`
		Linhas []domain.ExtractedLine `json:"linhas"`
	}
	if err := json.Unmarshal([]byte(raw), &envelope); err != nil {
		return nil, err
	}
	if len(envelope.Lines) > 0 {
		return envelope.Lines, nil
	}
	if len(envelope.Linhas) > 0 {
		return envelope.Linhas, nil
	}
	return nil, fmt.Errorf("no statement lines in model output")
}
