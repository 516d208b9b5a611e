package report

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"
)

//go:embed templates/comparison.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"brl":      formatBRL,
	"pct":      formatPct,
	"datetime": formatDateTime,
}

// RenderComparison renders the comparison document and converts it to
// PDF through Gotenberg.
func (p *PDFExporter) RenderComparison(ctx context.Context, result *domain.ComparisonResult) ([]byte, error) {
	html, err := p.BuildComparisonHTML(result)
	if err != nil {
		return nil, err
	}
	return p.convertHTML(ctx, html)
}

// BuildComparisonHTML renders the comparison template without the PDF
// conversion step.
func (p *PDFExporter) BuildComparisonHTML(result *domain.ComparisonResult) (string, error) {
	buf := &bytes.Buffer{}
	if err := p.templates.ExecuteTemplate(buf, "comparison.html", result); err != nil {
		return "", fmt.Errorf("render comparison template: %w", err)
	}
	return buf.String(), nil
}

// formatBRL renders a monetary value with Brazilian separators, e.g.
// 1234567.8 becomes "R$ 1.234.567,80".
func formatBRL(v float64) string {
	s := strconv.FormatFloat(math.Abs(v), 'f', 2, 64)
	intPart, decPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := "R$ " + b.String() + "," + decPart
	if v < 0 {
		out = "-" + out
	}
	return out
}

// formatPct renders a percentage that is already on the 0-100 scale.
func formatPct(v float64) string {
	return strings.Replace(strconv.FormatFloat(v, 'f', 2, 64), ".", ",", 1) + "%"
}

func formatDateTime(t time.Time) string {
	return t.Format("02/01/2006 15:04")
}
