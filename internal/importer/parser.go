package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	enc "github.com/MrJamesThe3rd/splitty/internal/encoding"
)

// dateLayouts are tried in order for the date column.
var dateLayouts = []string{
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
}

// Parser reads expense CSV files. The delimiter (semicolon or comma) and the header row are
// detected from the content, so exports with preamble lines and any column order are accepted.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]Row, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	for _, comma := range []rune{';', ','} {
		rows, err := readCSV(string(content), comma)
		if err != nil {
			continue
		}

		cols, headerIdx, ok := detectHeader(rows)
		if !ok {
			continue
		}

		return parseRows(cols, rows[headerIdx+1:], headerIdx+1)
	}

	return nil, ErrNoHeader
}

func readCSV(content string, comma rune) ([][]string, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps each detected field to its column.
type colIndex map[field]int

// detectHeader returns the first row that names every required field.
func detectHeader(rows [][]string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			f, ok := aliases[headerKey(cell)]
			if !ok {
				continue
			}

			if _, seen := cols[f]; !seen {
				cols[f] = i
			}
		}

		if hasRequired(cols) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func hasRequired(cols colIndex) bool {
	for _, f := range requiredFields {
		if _, ok := cols[f]; !ok {
			return false
		}
	}

	return true
}

// parseRows skips lines without a readable date (totals, page footers) and rejects data
// lines with a missing purpose or an unreadable amount.
func parseRows(cols colIndex, rows [][]string, headerRowNum int) ([]Row, error) {
	var out []Row

	for i, row := range rows {
		rowNum := headerRowNum + i + 1 // 1-based

		date, ok := parseDate(cellValue(row, cols, fieldDate))
		if !ok {
			continue
		}

		purpose := cellValue(row, cols, fieldPurpose)
		if purpose == "" {
			return nil, fmt.Errorf("row %d: missing purpose", rowNum)
		}

		amount, err := parseAmount(cellValue(row, cols, fieldAmount))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", rowNum, err)
		}

		out = append(out, Row{
			Date:    date,
			Purpose: purpose,
			Amount:  amount,
			Note:    cellValue(row, cols, fieldNote),
			Payer:   cellValue(row, cols, fieldPayer),
		})
	}

	return out, nil
}

// parseDate normalises any accepted layout to YYYY-MM-DD.
func parseDate(s string) (string, bool) {
	if s == "" {
		return "", false
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.DateOnly), true
		}
	}

	return "", false
}

func cellValue(row []string, cols colIndex, f field) string {
	idx, ok := cols[f]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
