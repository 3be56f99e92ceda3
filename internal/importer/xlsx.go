package importer

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

type xlsxSource struct {
	file       *excelize.File
	sheet      string
	rows       [][]string
	headers    []string
	next       int
	dateLayout string
	date1904   bool
	dateStyles map[int]bool
}

func newXLSXSource(r io.Reader, dateLayout string) (*xlsxSource, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open xlsx: %w", ErrMalformedFile, err)
	}

	sheet := f.GetSheetName(0)
	if sheet == "" {
		f.Close()
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrMalformedFile)
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: read sheet %q: %w", ErrMalformedFile, sheet, err)
	}

	s := &xlsxSource{
		file:       f,
		sheet:      sheet,
		rows:       rows,
		next:       1,
		dateLayout: dateLayout,
		dateStyles: make(map[int]bool),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		s.date1904 = *props.Date1904
	}
	if len(rows) > 0 {
		s.headers = trimHeaders(rows[0])
	}

	return s, nil
}

func (s *xlsxSource) Headers() []string {
	return s.headers
}

func (s *xlsxSource) Next() (Row, error) {
	if s.next >= len(s.rows) {
		return Row{}, io.EOF
	}

	idx := s.next
	s.next++

	cells := make([]string, len(s.rows[idx]))
	for col, raw := range s.rows[idx] {
		cells[col] = s.cellText(idx, col, raw)
	}

	return newRow(idx+1, s.headers, cells), nil
}

func (s *xlsxSource) Close() error {
	return s.file.Close()
}

// cellText returns text cells verbatim and rewrites date-formatted numeric
// cells using the configured layout. Other numbers keep their raw value.
func (s *xlsxSource) cellText(row, col int, raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	serial, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return raw
	}

	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return raw
	}

	cellType, err := s.file.GetCellType(s.sheet, cell)
	if err != nil {
		return raw
	}
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return raw
	}

	styleID, err := s.file.GetCellStyle(s.sheet, cell)
	if err != nil || !s.isDateStyle(styleID) {
		return raw
	}

	t, err := excelize.ExcelDateToTime(serial, s.date1904)
	if err != nil {
		return raw
	}
	return t.Format(s.dateLayout)
}

func (s *xlsxSource) isDateStyle(styleID int) bool {
	if isDate, ok := s.dateStyles[styleID]; ok {
		return isDate
	}

	isDate := false
	if style, err := s.file.GetStyle(styleID); err == nil && style != nil {
		switch {
		case isBuiltInDateFormat(style.NumFmt):
			isDate = true
		case style.CustomNumFmt != nil:
			isDate = isDateFormatCode(*style.CustomNumFmt)
		}
	}

	s.dateStyles[styleID] = isDate
	return isDate
}

func isBuiltInDateFormat(id int) bool {
	switch {
	case id >= 14 && id <= 22:
		return true
	case id >= 27 && id <= 36:
		return true
	case id >= 45 && id <= 47:
		return true
	case id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format renders a date.
// Quoted literals, escaped characters and bracketed sections are ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, r := range code {
		switch {
		case escaped:
			escaped = false
		case r == '\\':
			escaped = true
		case r == '"':
			inQuote = !inQuote
		case inQuote:
		case r == '[':
			inBracket = true
		case r == ']':
			inBracket = false
		case inBracket:
		default:
			b.WriteRune(r)
		}
	}

	cleaned := strings.ToLower(b.String())
	if cleaned == "" || cleaned == "general" || cleaned == "@" {
		return false
	}
	if strings.ContainsAny(cleaned, "yd") {
		return true
	}
	return strings.Contains(cleaned, "m") && !strings.ContainsAny(cleaned, "0#")
}
