// Package spreadsheet turns uploaded statement files into ledger lines.
// Accounting systems export DREs as .xlsx, legacy .xls or .csv with
// inconsistent headers, encodings and number formats, so reading is
// deliberately lenient: header rows are located by fuzzy matching and
// values go through a Brazilian-format number parser.
package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"io"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/boddenberg/pj-taxsim-go/internal/domain"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// Reader parses uploaded spreadsheet and CSV files.
type Reader struct {
	logger *zap.Logger
}

// NewReader creates a spreadsheet Reader.
func NewReader(logger *zap.Logger) *Reader {
	return &Reader{logger: logger}
}

// Read parses the uploaded file into untagged ledger lines. The second
// return value is the format actually used ("xlsx", "xls" or "csv"),
// which can differ from the extension for mislabeled files.
func (r *Reader) Read(filename string, file io.Reader) ([]domain.LineItem, string, error) {
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, "", err
	}

	var rows [][]string
	var source string

	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx":
		rows, err = readXLSX(data)
		source = "xlsx"
	case ".xls":
		rows, source, err = readXLS(data)
	case ".csv", ".txt":
		rows, err = readCSV(data)
		source = "csv"
	default:
		return nil, "", &domain.ErrUnsupportedFile{Filename: filename}
	}
	if err != nil {
		return nil, "", err
	}

	lines, err := r.rowsToLines(rows)
	if err != nil {
		return nil, "", err
	}

	r.logger.Debug("spreadsheet: parsed upload",
		zap.String("file", filename),
		zap.String("source", source),
		zap.Int("lines", len(lines)),
	)
	return lines, source, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &domain.ErrValidation{Field: "file", Message: "o arquivo não contém planilhas"}
	}
	return f.GetRows(sheets[0])
}

func readXLS(data []byte) ([][]string, string, error) {
	workbook, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		// Spreadsheets saved as .xlsx but renamed .xls show up often
		// enough to warrant a second try.
		if rows, errX := readXLSX(data); errX == nil {
			return rows, "xlsx", nil
		}
		return nil, "", err
	}

	if len(workbook.GetSheets()) == 0 {
		return nil, "", &domain.ErrValidation{Field: "file", Message: "o arquivo não contém planilhas"}
	}

	sheet, err := workbook.GetSheet(0)
	if err != nil {
		return nil, "", err
	}

	var rows [][]string
	for _, row := range sheet.GetRows() {
		var cells []string
		for _, cell := range row.GetCols() {
			cells = append(cells, cell.GetString())
		}
		rows = append(rows, cells)
	}
	return rows, "xls", nil
}

func readCSV(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})

	var reader io.Reader = bytes.NewReader(data)
	if !utf8.Valid(data) {
		reader = transform.NewReader(reader, charmap.Windows1252.NewDecoder())
	}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = detectSeparator(data)
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	return csvReader.ReadAll()
}

// detectSeparator picks between the Brazilian default ';' and ',' by
// counting occurrences on the first line.
func detectSeparator(data []byte) rune {
	firstLine := data
	if idx := bytes.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}
	if bytes.Count(firstLine, []byte{','}) > bytes.Count(firstLine, []byte{';'}) {
		return ','
	}
	return ';'
}
