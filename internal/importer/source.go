package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CanonicalDateLayout is the text form (M/d/yyyy) spreadsheet date cells are
// rewritten to unless a domain asks for another layout.
const CanonicalDateLayout = "1/2/2006"

// Row is one data row keyed by header, cell values already trimmed.
// Line is the 1-based position in the source file; the header is line 1.
// Unnamed holds non-empty cells that sit under no header (or a repeated one),
// keyed by column letter.
type Row struct {
	Line    int
	Values  map[string]string
	Unnamed map[string]string
}

func (r Row) Get(header string) string {
	return r.Values[header]
}

func (r Row) Has(header string) bool {
	_, ok := r.Values[header]
	return ok
}

// IsBlank reports whether every cell of the row is empty.
func (r Row) IsBlank() bool {
	return !r.hasNamedValues() && len(r.Unnamed) == 0
}

func (r Row) hasNamedValues() bool {
	for _, v := range r.Values {
		if v != "" {
			return true
		}
	}
	return false
}

// Source yields the rows of one file once, in order. Next returns io.EOF
// after the last row.
type Source interface {
	Headers() []string
	Next() (Row, error)
	Close() error
}

type SourceOptions struct {
	// DateLayout formats spreadsheet date cells. Defaults to CanonicalDateLayout.
	DateLayout string
}

// OpenSource reads the header row of r and returns a Source for the rest.
func OpenSource(format Format, r io.Reader, opts SourceOptions) (Source, error) {
	if opts.DateLayout == "" {
		opts.DateLayout = CanonicalDateLayout
	}

	switch format {
	case FormatCSV:
		return newCSVSource(r)
	case FormatXLSX:
		return newXLSXSource(r, opts.DateLayout)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// newRow maps cells to headers by position. Cells beyond the record are read
// as empty. Content under an empty or repeated header goes to Row.Unnamed.
func newRow(line int, headers, cells []string) Row {
	row := Row{Line: line, Values: make(map[string]string, len(headers))}
	for i := 0; i < max(len(headers), len(cells)); i++ {
		v := ""
		if i < len(cells) {
			v = strings.TrimSpace(cells[i])
		}

		h := ""
		if i < len(headers) {
			h = headers[i]
		}
		if _, dup := row.Values[h]; h != "" && !dup {
			row.Values[h] = v
			continue
		}

		if v == "" {
			continue
		}
		if row.Unnamed == nil {
			row.Unnamed = make(map[string]string)
		}
		col, _ := excelize.ColumnNumberToName(i + 1)
		row.Unnamed[col] = v
	}
	return row
}

func trimHeaders(raw []string) []string {
	headers := make([]string, len(raw))
	for i, h := range raw {
		headers[i] = strings.TrimSpace(h)
	}
	return headers
}
