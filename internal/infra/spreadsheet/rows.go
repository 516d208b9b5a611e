package spreadsheet

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"

	"github.com/schollz/closestmatch"
)

const headerScanLimit = 10

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^A-Z0-9 ]+`)
	whitespaceRegex      = regexp.MustCompile(`\s+`)

	// 1.234 or 12.345.678: dots as Brazilian thousands separators.
	thousandsPattern = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)
)

var headerDescriptionKeys = []string{
	"DESCRICAO", "CONTA", "HISTORICO", "DISCRIMINACAO",
	"NOME DA CONTA", "DESCRICAO DA CONTA",
}

var headerValueKeys = []string{
	"VALOR", "SALDO", "SALDO ATUAL", "MOVIMENTO", "VALOR R",
}

// Subtotal markers: rows carrying these are computed in the statement
// itself and must not enter any aggregate again.
var syntheticMarkers = []string{
	"TOTAL", "SUBTOTAL", "SOMA", "RESULTADO", "RECEITA LIQUIDA",
	"LUCRO BRUTO", "LUCRO LIQUIDO", "LUCRO OPERACIONAL", "LUCRO ANTES",
	"LAIR", "PREJUIZO",
}

func normalizeCell(str string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(func(r rune) bool {
		return unicode.Is(unicode.Mn, r)
	}))
	result, _, _ := transform.String(t, str)
	result = strings.ToUpper(result)
	result = nonAlphanumericRegex.ReplaceAllString(result, " ")
	result = whitespaceRegex.ReplaceAllString(result, " ")
	return strings.TrimSpace(result)
}

// rowsToLines converts raw sheet rows into ledger lines. The header row
// decides the description and value columns; sheets without one fall
// back to positional detection.
func (r *Reader) rowsToLines(rows [][]string) ([]domain.LineItem, error) {
	descCol, valueCol, start := findHeader(rows)
	if descCol < 0 {
		descCol = 0
		valueCol = findValueColumn(rows)
		start = 0
		if valueCol < 0 {
			return nil, &domain.ErrValidation{Field: "file", Message: "nenhuma coluna de valores encontrada na planilha"}
		}
	}

	var lines []domain.LineItem
	for _, row := range rows[start:] {
		if descCol >= len(row) {
			continue
		}
		rawDesc := row[descCol]
		desc := strings.TrimSpace(rawDesc)
		if desc == "" {
			continue
		}

		var value float64
		if valueCol < len(row) {
			parsed, err := parseBRLNumber(row[valueCol])
			if err != nil {
				continue
			}
			value = parsed
		}

		normalized := normalizeCell(desc)
		kind := domain.LineAnalytical
		for _, marker := range syntheticMarkers {
			if strings.Contains(normalized, marker) {
				kind = domain.LineSynthetic
				break
			}
		}

		lines = append(lines, domain.LineItem{
			Description: desc,
			Value:       value,
			Section:     domain.SectionDRE,
			Level:       levelFromIndent(rawDesc),
			Kind:        kind,
		})
	}

	if len(lines) == 0 {
		return nil, &domain.ErrValidation{Field: "file", Message: "nenhuma linha reconhecida na planilha"}
	}
	return lines, nil
}

// findHeader scans the first rows for one naming both a description and
// a value column. Exact contains-matching runs first; when only one of
// the two columns matches, a fuzzy pass resolves the other, because
// exports abbreviate headers freely ("Descr. Conta", "Vlr (R$)").
func findHeader(rows [][]string) (descCol, valueCol, start int) {
	limit := len(rows)
	if limit > headerScanLimit {
		limit = headerScanLimit
	}

	for i := 0; i < limit; i++ {
		cells := make([]string, len(rows[i]))
		for j, cell := range rows[i] {
			cells[j] = normalizeCell(cell)
		}

		desc := matchColumn(cells, headerDescriptionKeys, -1)
		value := matchColumn(cells, headerValueKeys, desc)
		if desc >= 0 && value < 0 {
			value = fuzzyMatchColumn(cells, headerValueKeys, desc)
		}
		if value >= 0 && desc < 0 {
			desc = fuzzyMatchColumn(cells, headerDescriptionKeys, value)
		}

		if desc >= 0 && value >= 0 && desc != value {
			return desc, value, i + 1
		}
	}
	return -1, -1, 0
}

// matchColumn tries keys in priority order so a "Descrição" column wins
// over a "Conta" code column when an export ships both.
func matchColumn(cells, keys []string, exclude int) int {
	for _, key := range keys {
		for j, cell := range cells {
			if j == exclude || cell == "" {
				continue
			}
			if strings.Contains(cell, key) {
				return j
			}
		}
	}
	return -1
}

func fuzzyMatchColumn(cells, keys []string, exclude int) int {
	var candidates []string
	index := make(map[string]int, len(cells))
	for j, cell := range cells {
		if j == exclude || cell == "" {
			continue
		}
		if _, seen := index[cell]; !seen {
			index[cell] = j
			candidates = append(candidates, cell)
		}
	}
	if len(candidates) == 0 {
		return -1
	}

	cm := closestmatch.New(candidates, []int{3, 4})
	for _, key := range keys {
		if match := cm.Closest(key); match != "" {
			return index[match]
		}
	}
	return -1
}

// findValueColumn picks the column that parses as a number most often,
// for sheets exported without a header row.
func findValueColumn(rows [][]string) int {
	scores := make(map[int]int)
	limit := len(rows)
	if limit > 50 {
		limit = 50
	}

	for i := 0; i < limit; i++ {
		for j, cell := range rows[i] {
			if j == 0 {
				continue
			}
			cell = strings.TrimSpace(cell)
			if cell == "" || !strings.ContainsAny(cell, "0123456789") {
				continue
			}
			// Dates parse as digit runs and would outscore real values.
			if strings.ContainsAny(cell, "/:") {
				continue
			}
			if _, err := parseBRLNumber(cell); err == nil {
				scores[j]++
			}
		}
	}

	best, bestScore := -1, 0
	for j, score := range scores {
		if score > bestScore || (score == bestScore && best >= 0 && j < best) {
			best, bestScore = j, score
		}
	}
	return best
}

func levelFromIndent(raw string) int {
	indent := 0
	for _, r := range raw {
		if r == ' ' {
			indent++
			continue
		}
		if r == '\t' {
			indent += 2
			continue
		}
		break
	}
	level := 1 + indent/2
	if level > 4 {
		level = 4
	}
	return level
}

// parseBRLNumber handles the number spellings Brazilian exports mix
// freely: "1.234,56", "R$ 1.234,56", "(500,00)" for negatives, plain
// "1234.56" from anglo-configured systems and dotted thousands without
// decimals ("1.234").
func parseBRLNumber(val string) (float64, error) {
	s := strings.TrimSpace(val)
	if s == "" {
		return 0, nil
	}
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, nil
	}

	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = strings.TrimPrefix(strings.TrimSuffix(s, ")"), "(")
	}
	if strings.HasPrefix(s, "-") {
		neg = true
		s = strings.TrimPrefix(s, "-")
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastComma > lastDot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case lastDot > lastComma:
		if thousandsPattern.MatchString(s) {
			s = strings.ReplaceAll(s, ".", "")
		} else if strings.Count(s, ".") > 1 {
			parts := strings.Split(s, ".")
			s = strings.Join(parts[:len(parts)-1], "") + "." + parts[len(parts)-1]
		}
	}

	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	s = b.String()
	if s == "" {
		return 0, nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if neg {
		f = -f
	}
	return math.Round(f*100) / 100, nil
}
