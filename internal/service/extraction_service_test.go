package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/observability"
	"github.com/boddenberg/pj-taxsim-go/internal/service"

	"go.uber.org/zap"
)

// --- Mocks ---

type mockExtractor struct {
	lines  []domain.ExtractedLine
	usage  *domain.ExtractionUsage
	err    error
	source string
}

func (m *mockExtractor) ExtractLines(_ context.Context, _ string) ([]domain.ExtractedLine, *domain.ExtractionUsage, error) {
	return m.lines, m.usage, m.err
}

func (m *mockExtractor) Source() string { return m.source }

type mockSpreadsheetReader struct {
	lines  []domain.LineItem
	format string
	err    error
}

func (m *mockSpreadsheetReader) Read(_ string, _ io.Reader) ([]domain.LineItem, string, error) {
	return m.lines, m.format, m.err
}

// --- Tests ---

func TestExtractText_Success(t *testing.T) {
	extractor := &mockExtractor{
		source: "gemini",
		lines: []domain.ExtractedLine{
			{Description: "Receita bruta de serviços", Value: 840_000},
			{Description: "Salários e encargos", Value: -180_000, Level: 1},
			{Description: "Despesas administrativas", Value: -60_000, Level: 1},
		},
		usage: &domain.ExtractionUsage{PromptTokens: 1200, CompletionTokens: 300, TotalTokens: 1500},
	}
	svc := service.NewExtractionService(extractor, &mockSpreadsheetReader{}, observability.NewMetrics(), zap.NewNop())

	resp, err := svc.ExtractText(context.Background(), "RECEITA BRUTA DE SERVIÇOS ... 840.000,00")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Source != "gemini" {
		t.Errorf("expected source 'gemini', got '%s'", resp.Source)
	}
	if len(resp.Lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(resp.Lines))
	}
	if resp.Lines[0].Tag != domain.TagRevenue {
		t.Errorf("expected first line tagged REVENUE, got %s", resp.Lines[0].Tag)
	}
	if resp.Summary.Revenue != 840_000 {
		t.Errorf("expected revenue 840000, got %f", resp.Summary.Revenue)
	}
	if resp.Summary.Payroll != 180_000 {
		t.Errorf("expected payroll 180000, got %f", resp.Summary.Payroll)
	}
	if resp.Summary.Expenses != 60_000 {
		t.Errorf("expected expenses 60000, got %f", resp.Summary.Expenses)
	}
}

func TestExtractText_MapsSectionsAndSynthetic(t *testing.T) {
	extractor := &mockExtractor{
		source: "agent",
		lines: []domain.ExtractedLine{
			{Description: "Caixa e equivalentes", Value: 50_000, Section: "balance_sheet"},
			{Description: "Lucro bruto", Value: 300_000, Synthetic: true, AggregateRow: true},
		},
	}
	svc := service.NewExtractionService(extractor, &mockSpreadsheetReader{}, observability.NewMetrics(), zap.NewNop())

	resp, err := svc.ExtractText(context.Background(), "balanço")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Lines[0].Section != domain.SectionBalanceSheet {
		t.Errorf("expected BALANCE_SHEET section, got %s", resp.Lines[0].Section)
	}
	if resp.Lines[1].Kind != domain.LineSynthetic {
		t.Errorf("expected synthetic kind, got %s", resp.Lines[1].Kind)
	}
	if resp.Summary.Revenue != 0 {
		t.Errorf("expected synthetic and balance lines out of the summary, got revenue %f", resp.Summary.Revenue)
	}
}

func TestExtractText_EmptyText(t *testing.T) {
	svc := service.NewExtractionService(&mockExtractor{source: "gemini"}, &mockSpreadsheetReader{}, observability.NewMetrics(), zap.NewNop())

	_, err := svc.ExtractText(context.Background(), "   \n  ")

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtractText_NoBackendConfigured(t *testing.T) {
	svc := service.NewExtractionService(nil, &mockSpreadsheetReader{}, observability.NewMetrics(), zap.NewNop())

	_, err := svc.ExtractText(context.Background(), "RECEITA BRUTA 100.000")

	var unavailable *domain.ErrExtractionUnavailable
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected extraction-unavailable error, got %v", err)
	}
}

func TestExtractText_BackendError(t *testing.T) {
	extractor := &mockExtractor{source: "gemini", err: errors.New("quota exceeded")}
	svc := service.NewExtractionService(extractor, &mockSpreadsheetReader{}, observability.NewMetrics(), zap.NewNop())

	_, err := svc.ExtractText(context.Background(), "RECEITA BRUTA 100.000")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestExtractText_NoLinesRecognized(t *testing.T) {
	extractor := &mockExtractor{source: "gemini"}
	svc := service.NewExtractionService(extractor, &mockSpreadsheetReader{}, observability.NewMetrics(), zap.NewNop())

	_, err := svc.ExtractText(context.Background(), "texto sem nenhuma linha contábil")

	var validationErr *domain.ErrValidation
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestExtractFile_Success(t *testing.T) {
	reader := &mockSpreadsheetReader{
		format: "xlsx",
		lines: []domain.LineItem{
			{Description: "Receita bruta", Value: 500_000, Section: domain.SectionDRE, Kind: domain.LineAnalytical},
			{Description: "Folha de pagamento", Value: -120_000, Section: domain.SectionDRE, Kind: domain.LineAnalytical},
		},
	}
	svc := service.NewExtractionService(nil, reader, observability.NewMetrics(), zap.NewNop())

	resp, err := svc.ExtractFile(context.Background(), "dre.xlsx", strings.NewReader("fake"))
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if resp.Source != "xlsx" {
		t.Errorf("expected source 'xlsx', got '%s'", resp.Source)
	}
	if resp.Summary.Revenue != 500_000 {
		t.Errorf("expected revenue 500000, got %f", resp.Summary.Revenue)
	}
	if resp.Summary.Payroll != 120_000 {
		t.Errorf("expected payroll 120000, got %f", resp.Summary.Payroll)
	}
	if resp.Lines[1].Tag != domain.TagPayroll {
		t.Errorf("expected second line tagged PAYROLL, got %s", resp.Lines[1].Tag)
	}
}

func TestExtractFile_ReaderError(t *testing.T) {
	reader := &mockSpreadsheetReader{err: &domain.ErrUnsupportedFile{Filename: "dre.pdf"}}
	svc := service.NewExtractionService(nil, reader, observability.NewMetrics(), zap.NewNop())

	_, err := svc.ExtractFile(context.Background(), "dre.pdf", strings.NewReader("fake"))

	var unsupported *domain.ErrUnsupportedFile
	if !errors.As(err, &unsupported) {
		t.Fatalf("expected unsupported-file error, got %v", err)
	}
}
