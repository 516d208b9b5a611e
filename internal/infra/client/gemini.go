package client

import (
	"context"
	"fmt"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// geminiSystemInstruction steers the model to transcription only. Tags
// are assigned later by the deterministic classifier.
const geminiSystemInstruction = `Você é um extrator de dados de demonstrações de resultado (DRE).
Receberá o texto de uma demonstração e deve devolver APENAS um JSON válido: um array de objetos, um por linha da demonstração, com os campos:
- "description": o texto da linha, sem o valor;
- "value": o valor numérico em reais (negativo para deduções, custos e despesas quando o sinal estiver indicado no texto);
- "synthetic": true para totais e subtotais calculados (Receita Líquida, Lucro Bruto, Resultado do Exercício);
- "aggregateRow": true para linhas que apenas somam outras linhas já listadas;
- "level": profundidade hierárquica da conta, começando em 1.
Não invente linhas, não some valores por conta própria e não inclua comentários nem marcação markdown na resposta.`

// GeminiClient extracts statement lines with the Gemini API.
type GeminiClient struct {
	client *genai.Client
	model  string
	cb     *gobreaker.CircuitBreaker
	cfg    resilience.Config
	logger *zap.Logger
}

// NewGeminiClient creates the SDK client once; the SDK handles its own
// connection reuse.
func NewGeminiClient(ctx context.Context, apiKey, model string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) (*GeminiClient, error) {
	genaiClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	return &GeminiClient{
		client: genaiClient,
		model:  model,
		cb:     cb,
		cfg:    cfg,
		logger: logger,
	}, nil
}

// Source labels extraction metrics and responses.
func (c *GeminiClient) Source() string { return "gemini" }

// ExtractLines asks the model to transcribe the statement text into
// rows. The raw output goes through the lenient parser because models
// still slip markdown fences or trailing commas past JSON mode.
func (c *GeminiClient) ExtractLines(ctx context.Context, text string) ([]domain.ExtractedLine, *domain.ExtractionUsage, error) {
	ctx, span := tracer.Start(ctx, "GeminiClient.ExtractLines")
	defer span.End()
	span.SetAttributes(
		attribute.String("gemini.model", c.model),
		attribute.Int("text.length", len(text)),
	)

	config := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(float32(0.1)),
		ResponseMIMEType: "application/json",
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{
				{Text: geminiSystemInstruction},
			},
		},
	}

	var lines []domain.ExtractedLine
	var usage *domain.ExtractionUsage

	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			result, err := c.client.Models.GenerateContent(ctx, c.model, genai.Text(text), config)
			if err != nil {
				return fmt.Errorf("gemini generation failed: %w", err)
			}

			raw := result.Text()
			parsed, err := ParseExtractedLines(raw)
			if err != nil {
				c.logger.Warn("gemini: unparseable model output",
					zap.Int("output_length", len(raw)),
					zap.Error(err),
				)
				return err
			}

			lines = parsed
			if result.UsageMetadata != nil {
				usage = &domain.ExtractionUsage{
					PromptTokens:     int(result.UsageMetadata.PromptTokenCount),
					CompletionTokens: int(result.UsageMetadata.CandidatesTokenCount),
					TotalTokens:      int(result.UsageMetadata.TotalTokenCount),
				}
			}
			return nil
		})
	})

	if err != nil {
		return nil, nil, &domain.ErrExternalService{Service: "gemini", Err: err}
	}

	return lines, usage, nil
}
