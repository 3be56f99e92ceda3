// Package importer reads CSV and XLSX uploads and converts their rows into
// domain records through a pluggable Processor. A bad row never stops the
// import; it is recorded as a RowFailure with its line number.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

// Run imports the file named filename from src. The format comes from the
// file extension. Unsupported formats and missing headers fail the whole call
// before any row is processed; every other problem is confined to its row.
func Run[D any, R any](
	ctx context.Context,
	log logrus.FieldLogger,
	filename string,
	src io.Reader,
	identity Identity,
	proc Processor[D, R],
) (*Result[R], error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	format, err := FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}

	var opts SourceOptions
	if dl, ok := proc.(DateLayouter); ok {
		opts.DateLayout = dl.DateLayout()
	}

	source, err := OpenSource(format, src, opts)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	if err := ValidateHeaders(source.Headers(), proc.RequiredHeaders()); err != nil {
		return nil, err
	}

	result := &Result[R]{}
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		row, err := source.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		result.TotalRows++
		if row.IsBlank() {
			result.BlankRows++
			continue
		}

		var (
			record R
			stage  = StageParse
		)
		if row.hasNamedValues() {
			record, stage, err = processRow(ctx, proc, row, identity)
		} else {
			err = fmt.Errorf("%w: %s", ErrUnnamedColumns, unnamedColumns(row))
		}
		if err != nil {
			result.Failures = append(result.Failures, RowFailure{
				Line:   row.Line,
				Stage:  stage,
				Reason: err.Error(),
				Values: failureValues(row),
			})
			log.WithFields(logrus.Fields{
				"line":  row.Line,
				"stage": stage,
			}).WithError(err).Warn("row import failed")
			continue
		}

		result.Records = append(result.Records, record)
	}

	log.WithFields(logrus.Fields{
		"file":       filename,
		"format":     format,
		"total_rows": result.TotalRows,
		"imported":   result.ImportedCount(),
		"failed":     result.ErrorCount(),
		"blank":      result.BlankRows,
	}).Info("import finished")

	return result, nil
}

// failureValues is the row as reported in diagnostics, unnamed cells included
// under their column letter.
func failureValues(row Row) map[string]string {
	if len(row.Unnamed) == 0 {
		return row.Values
	}
	values := make(map[string]string, len(row.Values)+len(row.Unnamed))
	for k, v := range row.Values {
		values[k] = v
	}
	for col, v := range row.Unnamed {
		values["column "+col] = v
	}
	return values
}

func unnamedColumns(row Row) string {
	cols := make([]string, 0, len(row.Unnamed))
	for col := range row.Unnamed {
		cols = append(cols, col)
	}
	sort.Slice(cols, func(i, j int) bool {
		if len(cols[i]) != len(cols[j]) {
			return len(cols[i]) < len(cols[j])
		}
		return cols[i] < cols[j]
	})
	return "column " + strings.Join(cols, ", ")
}

func processRow[D any, R any](ctx context.Context, proc Processor[D, R], row Row, identity Identity) (record R, stage Stage, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero R
			record = zero
			err = fmt.Errorf("unexpected error: %v", r)
		}
	}()

	stage = StageParse
	draft, err := proc.Parse(row)
	if err != nil {
		return record, stage, err
	}

	stage = StageValidate
	if err = proc.Validate(draft); err != nil {
		return record, stage, err
	}

	stage = StageConvert
	record, err = proc.Convert(ctx, draft, identity)
	if err != nil {
		var zero R
		return zero, stage, err
	}
	return record, stage, nil
}
