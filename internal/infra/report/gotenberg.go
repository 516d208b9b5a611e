// Package report renders the regime comparison as a PDF document
// through a Gotenberg instance.
package report

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
	"github.com/boddenberg/pj-taxsim-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("report")

// PDFExporter turns a comparison result into a printable PDF. The
// HTML is rendered locally from an embedded template and converted by
// an external Gotenberg service.
type PDFExporter struct {
	httpClient *http.Client
	baseURL    string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	templates  *template.Template
	logger     *zap.Logger
}

// NewPDFExporter creates a PDF exporter backed by the Gotenberg
// instance at baseURL.
func NewPDFExporter(httpClient *http.Client, baseURL string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) (*PDFExporter, error) {
	templates, err := template.New("report").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse report templates: %w", err)
	}
	return &PDFExporter{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		cb:         cb,
		cfg:        cfg,
		templates:  templates,
		logger:     logger,
	}, nil
}

// Ping checks if the remote Gotenberg service is available.
func (p *PDFExporter) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/health", p.baseURL), nil)
	if err != nil {
		return err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		return fmt.Errorf("gotenberg returned status %d", resp.StatusCode)
	}
	return nil
}

// convertHTML posts the document to Gotenberg's Chromium route and
// returns the PDF bytes. The main file must be named index.html.
func (p *PDFExporter) convertHTML(ctx context.Context, html string) ([]byte, error) {
	ctx, span := tracer.Start(ctx, "Gotenberg.ConvertHTML")
	defer span.End()

	var pdf []byte

	_, err := p.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, p.cfg, func() error {
			body := &bytes.Buffer{}
			writer := multipart.NewWriter(body)

			part, err := writer.CreateFormFile("files", "index.html")
			if err != nil {
				return err
			}
			if _, err := io.WriteString(part, html); err != nil {
				return err
			}

			// A4 paper, sizes in inches.
			fields := map[string]string{
				"paperWidth":   "8.27",
				"paperHeight":  "11.7",
				"marginTop":    "0.4",
				"marginBottom": "0.4",
				"marginLeft":   "0.4",
				"marginRight":  "0.4",
			}
			for name, value := range fields {
				if err := writer.WriteField(name, value); err != nil {
					return err
				}
			}

			if err := writer.Close(); err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/forms/chromium/convert/html", p.baseURL), body)
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", writer.FormDataContentType())

			resp, err := p.httpClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()

			if resp.StatusCode < 200 || resp.StatusCode >= 300 {
				data, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<10))
				p.logger.Warn("gotenberg: conversion failed",
					zap.Int("status", resp.StatusCode),
					zap.String("body", string(data)),
				)
				return fmt.Errorf("gotenberg response %d: %s", resp.StatusCode, string(data))
			}

			pdf, err = io.ReadAll(resp.Body)
			return err
		})
	})

	if err != nil {
		return nil, &domain.ErrExternalService{Service: "gotenberg", Err: err}
	}
	return pdf, nil
}
