package service

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/engine"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var extractTracer = otel.Tracer("service/extraction")

// ExtractionService turns pasted DRE text or uploaded spreadsheets into
// classified ledger lines ready for a simulation run.
type ExtractionService struct {
	extractor port.LineExtractor // nil when no AI backend is configured
	reader    port.SpreadsheetReader
	metrics   *observability.Metrics
	logger    *zap.Logger
}

// NewExtractionService creates the extraction service. extractor may be
// nil; the text endpoint then reports the feature as unavailable.
func NewExtractionService(extractor port.LineExtractor, reader port.SpreadsheetReader, metrics *observability.Metrics, logger *zap.Logger) *ExtractionService {
	return &ExtractionService{
		extractor: extractor,
		reader:    reader,
		metrics:   metrics,
		logger:    logger,
	}
}

// ============================================================
// ExtractText — POST /v1/extract/text
// ============================================================

func (s *ExtractionService) ExtractText(ctx context.Context, text string) (*domain.ExtractResponse, error) {
	ctx, span := extractTracer.Start(ctx, "ExtractionService.ExtractText")
	defer span.End()

	if strings.TrimSpace(text) == "" {
		return nil, &domain.ErrValidation{Field: "text", Message: "Informe o texto do demonstrativo"}
	}
	if s.extractor == nil {
		return nil, &domain.ErrExtractionUnavailable{}
	}

	source := s.extractor.Source()
	span.SetAttributes(attribute.String("extractor.backend", source))

	start := time.Now()
	extracted, usage, err := s.extractor.ExtractLines(ctx, text)
	s.metrics.RecordRequestDuration("extraction", time.Since(start))

	if err != nil {
		s.logger.Error("extraction backend failed",
			zap.String("backend", source),
			zap.Error(err),
		)
		s.metrics.IncrExternalError(source)
		return nil, fmt.Errorf("extract lines: %w", err)
	}
	if len(extracted) == 0 {
		return nil, &domain.ErrValidation{Field: "text", Message: "Nenhuma linha reconhecida no texto"}
	}

	lines := engine.Classify(convertExtractedLines(extracted))
	summary := engine.Aggregate(lines)

	if usage != nil {
		s.metrics.RecordTokens(usage.PromptTokens, usage.CompletionTokens)
	}
	s.metrics.IncrExtraction(source)

	s.logger.Info("text extracted",
		zap.String("backend", source),
		zap.Int("lines", len(lines)),
	)

	return &domain.ExtractResponse{
		Lines:   lines,
		Summary: summary,
		Source:  source,
	}, nil
}

// convertExtractedLines maps the LLM transcription schema onto ledger
// lines. Tags are left empty for the classifier.
func convertExtractedLines(extracted []domain.ExtractedLine) []domain.LineItem {
	lines := make([]domain.LineItem, 0, len(extracted))
	for _, e := range extracted {
		section := domain.SectionDRE
		switch strings.ToUpper(e.Section) {
		case string(domain.SectionBalanceSheet):
			section = domain.SectionBalanceSheet
		case string(domain.SectionEBITDA):
			section = domain.SectionEBITDA
		}

		kind := domain.LineAnalytical
		if e.Synthetic {
			kind = domain.LineSynthetic
		}

		lines = append(lines, domain.LineItem{
			Description:  strings.TrimSpace(e.Description),
			Value:        e.Value,
			AggregateRow: e.AggregateRow,
			Section:      section,
			Level:        e.Level,
			Kind:         kind,
		})
	}
	return lines
}

// ============================================================
// ExtractFile — POST /v1/extract/file
// ============================================================

func (s *ExtractionService) ExtractFile(ctx context.Context, filename string, file io.Reader) (*domain.ExtractResponse, error) {
	ctx, span := extractTracer.Start(ctx, "ExtractionService.ExtractFile")
	defer span.End()
	span.SetAttributes(attribute.String("upload.filename", filename))

	start := time.Now()
	parsed, format, err := s.reader.Read(filename, file)
	s.metrics.RecordRequestDuration("extraction", time.Since(start))
	if err != nil {
		return nil, err
	}

	lines := engine.Classify(parsed)
	summary := engine.Aggregate(lines)

	s.metrics.IncrExtraction(format)

	s.logger.Info("file extracted",
		zap.String("filename", filename),
		zap.String("format", format),
		zap.Int("lines", len(lines)),
	)

	return &domain.ExtractResponse{
		Lines:   lines,
		Summary: summary,
		Source:  format,
	}, nil
}
