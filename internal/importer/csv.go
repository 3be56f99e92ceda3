package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

type csvSource struct {
	reader  *csv.Reader
	headers []string
}

func newCSVSource(r io.Reader) (*csvSource, error) {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}

	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return &csvSource{reader: reader}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read csv header: %w", ErrMalformedFile, err)
	}

	return &csvSource{reader: reader, headers: trimHeaders(header)}, nil
}

func (s *csvSource) Headers() []string {
	return s.headers
}

func (s *csvSource) Next() (Row, error) {
	if s.headers == nil {
		return Row{}, io.EOF
	}

	record, err := s.reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		return Row{}, fmt.Errorf("%w: read csv record: %w", ErrMalformedFile, err)
	}

	line, _ := s.reader.FieldPos(0)
	return newRow(line, s.headers, record), nil
}

func (s *csvSource) Close() error {
	return nil
}
