package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type testDraft struct {
	Name string
	When time.Time
}

type testRecord struct {
	Name   string
	When   time.Time
	UserID int
}

type testProcessor struct {
	known map[string]bool
	panic string
}

func (p *testProcessor) RequiredHeaders() []string {
	return []string{"Name", "When"}
}

func (p *testProcessor) Parse(row Row) (testDraft, error) {
	if p.panic != "" && row.Get("Name") == p.panic {
		panic("boom")
	}
	when, err := ParseDate(row.Get("When"), CanonicalDateLayout)
	if err != nil {
		return testDraft{}, fmt.Errorf("When: %w", err)
	}
	return testDraft{Name: row.Get("Name"), When: when}, nil
}

func (p *testProcessor) Validate(d testDraft) error {
	var v Violations
	v.Require(d.Name, "Name is required")
	v.Check(d.When.Year() >= 2000, "When must be after 2000")
	return v.Err()
}

func (p *testProcessor) Convert(_ context.Context, d testDraft, id Identity) (testRecord, error) {
	if p.known != nil && !p.known[d.Name] {
		return testRecord{}, fmt.Errorf("%w: %s", ErrReferenceNotFound, d.Name)
	}
	return testRecord{Name: d.Name, When: d.When, UserID: id.UserID}, nil
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func runCSV(t *testing.T, filename, content string, proc *testProcessor) (*Result[testRecord], error) {
	t.Helper()
	return Run[testDraft, testRecord](context.Background(), quietLogger(), filename, strings.NewReader(content), Identity{UserID: 7}, proc)
}

func TestRunCSVSkipsBadRow(t *testing.T) {
	content := "Name,When\n" +
		"alpha,1/2/2024\n" +
		"beta,not-a-date\n" +
		"gamma,12/31/2023\n" +
		"delta,3/4/2024\n"

	result, err := runCSV(t, "rows.csv", content, &testProcessor{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if got := len(result.Records); got != 3 {
		t.Fatalf("len(Records) = %d, want 3", got)
	}
	wantNames := []string{"alpha", "gamma", "delta"}
	for i, name := range wantNames {
		if result.Records[i].Name != name {
			t.Errorf("Records[%d].Name = %q, want %q", i, result.Records[i].Name, name)
		}
		if result.Records[i].UserID != 7 {
			t.Errorf("Records[%d].UserID = %d, want 7", i, result.Records[i].UserID)
		}
	}

	if got := len(result.Failures); got != 1 {
		t.Fatalf("len(Failures) = %d, want 1", got)
	}
	failure := result.Failures[0]
	if failure.Line != 3 {
		t.Errorf("Failures[0].Line = %d, want 3", failure.Line)
	}
	if failure.Stage != StageParse {
		t.Errorf("Failures[0].Stage = %q, want %q", failure.Stage, StageParse)
	}
	if !strings.Contains(failure.Reason, "not-a-date") {
		t.Errorf("Failures[0].Reason = %q, want it to mention the bad value", failure.Reason)
	}
}

func TestRunMissingHeaders(t *testing.T) {
	content := "Other\nx\ny\n"

	result, err := runCSV(t, "rows.csv", content, &testProcessor{})
	if result != nil {
		t.Errorf("Run() result = %+v, want nil", result)
	}
	if !errors.Is(err, ErrMissingHeaders) {
		t.Fatalf("Run() error = %v, want ErrMissingHeaders", err)
	}

	var mh *MissingHeadersError
	if !errors.As(err, &mh) {
		t.Fatalf("Run() error type = %T, want *MissingHeadersError", err)
	}
	if strings.Join(mh.Missing, ",") != "Name,When" {
		t.Errorf("Missing = %v, want [Name When]", mh.Missing)
	}
	if err.Error() != "missing required header(s): Name, When" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestRunBlankRowsAreSilent(t *testing.T) {
	content := "Name,When\n" +
		"alpha,1/2/2024\n" +
		" , \n" +
		",\n" +
		"beta,1/3/2024\n"

	result, err := runCSV(t, "rows.csv", content, &testProcessor{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Records) != 2 {
		t.Errorf("len(Records) = %d, want 2", len(result.Records))
	}
	if len(result.Failures) != 0 {
		t.Errorf("len(Failures) = %d, want 0: %+v", len(result.Failures), result.Failures)
	}
	if result.BlankRows != 2 {
		t.Errorf("BlankRows = %d, want 2", result.BlankRows)
	}
	if result.TotalRows != 4 {
		t.Errorf("TotalRows = %d, want 4", result.TotalRows)
	}
}

func TestRunRowWithOnlyUnnamedColumnsFails(t *testing.T) {
	content := "Name,When,,When\n" +
		"alpha,1/2/2024,note,\n" +
		",,stray,\n" +
		",,,1/5/2024\n" +
		",,,\n"

	result, err := runCSV(t, "rows.csv", content, &testProcessor{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Records) != 1 || result.Records[0].Name != "alpha" {
		t.Errorf("Records = %+v, want only alpha", result.Records)
	}
	if result.BlankRows != 1 || result.TotalRows != 4 {
		t.Errorf("BlankRows = %d, TotalRows = %d, want 1 and 4", result.BlankRows, result.TotalRows)
	}
	if len(result.Failures) != 2 {
		t.Fatalf("Failures = %+v, want 2", result.Failures)
	}

	first := result.Failures[0]
	if first.Line != 3 || first.Stage != StageParse || first.Reason != "row has values only in columns without a header: column C" {
		t.Errorf("Failures[0] = %+v", first)
	}
	if first.Values["column C"] != "stray" {
		t.Errorf("Failures[0].Values = %v, want the stray cell under column C", first.Values)
	}
	if second := result.Failures[1]; second.Line != 4 || !strings.HasSuffix(second.Reason, "column D") {
		t.Errorf("Failures[1] = %+v", second)
	}
}

func TestRunUnsupportedExtension(t *testing.T) {
	content := "Name,When\nalpha,1/2/2024\n"

	for _, name := range []string{"rows.txt", "rows", "rows.xls", "rows.csv.bak"} {
		result, err := runCSV(t, name, content, &testProcessor{})
		if !errors.Is(err, ErrUnsupportedFormat) {
			t.Errorf("Run(%q) error = %v, want ErrUnsupportedFormat", name, err)
		}
		if result != nil {
			t.Errorf("Run(%q) result = %+v, want nil", name, result)
		}
	}
}

func TestRunExtensionIsCaseInsensitive(t *testing.T) {
	result, err := runCSV(t, "ROWS.CSV", "Name,When\nalpha,1/2/2024\n", &testProcessor{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Records) != 1 {
		t.Errorf("len(Records) = %d, want 1", len(result.Records))
	}
}

func TestRunReferenceFailureIsRowScoped(t *testing.T) {
	content := "Name,When\n" +
		"alpha,1/2/2024\n" +
		"ghost,1/2/2024\n" +
		"beta,1/2/2024\n"
	proc := &testProcessor{known: map[string]bool{"alpha": true, "beta": true}}

	result, err := runCSV(t, "rows.csv", content, proc)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Records) != 2 {
		t.Errorf("len(Records) = %d, want 2", len(result.Records))
	}
	if len(result.Failures) != 1 || result.Failures[0].Stage != StageConvert || result.Failures[0].Line != 3 {
		t.Fatalf("Failures = %+v, want one convert failure on line 3", result.Failures)
	}
}

func TestRunValidationAggregatesViolations(t *testing.T) {
	content := "Name,When\n ,1/2/1999\n"

	result, err := runCSV(t, "rows.csv", content, &testProcessor{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Failures) != 1 {
		t.Fatalf("len(Failures) = %d, want 1", len(result.Failures))
	}
	want := "validation failed: Name is required; When must be after 2000"
	if result.Failures[0].Reason != want {
		t.Errorf("Reason = %q, want %q", result.Failures[0].Reason, want)
	}
	if result.Failures[0].Stage != StageValidate {
		t.Errorf("Stage = %q, want %q", result.Failures[0].Stage, StageValidate)
	}
}

func TestRunRecoversFromPanickingProcessor(t *testing.T) {
	content := "Name,When\nalpha,1/2/2024\nbad,1/2/2024\nbeta,1/2/2024\n"

	result, err := runCSV(t, "rows.csv", content, &testProcessor{panic: "bad"})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Records) != 2 || len(result.Failures) != 1 {
		t.Fatalf("Records = %d, Failures = %d, want 2 and 1", len(result.Records), len(result.Failures))
	}
	if !strings.Contains(result.Failures[0].Reason, "boom") {
		t.Errorf("Reason = %q, want it to contain the panic value", result.Failures[0].Reason)
	}
}

func TestRunCountInvariant(t *testing.T) {
	var b strings.Builder
	b.WriteString("Name,When\n")
	for i := 0; i < 20; i++ {
		switch i % 4 {
		case 0:
			b.WriteString(",\n")
		case 1:
			fmt.Fprintf(&b, "row%d,bad\n", i)
		default:
			fmt.Fprintf(&b, "row%d,5/6/2024\n", i)
		}
	}

	result, err := runCSV(t, "rows.csv", b.String(), &testProcessor{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := result.ImportedCount() + result.ErrorCount() + result.BlankRows; got != result.TotalRows {
		t.Errorf("imported+failed+blank = %d, want TotalRows %d", got, result.TotalRows)
	}
	if result.ImportedCount() != 10 || result.ErrorCount() != 5 || result.BlankRows != 5 {
		t.Errorf("imported=%d failed=%d blank=%d, want 10/5/5",
			result.ImportedCount(), result.ErrorCount(), result.BlankRows)
	}
}

func TestRunStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run[testDraft, testRecord](ctx, quietLogger(), "rows.csv",
		strings.NewReader("Name,When\nalpha,1/2/2024\n"), Identity{}, &testProcessor{})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunCSVWithBOMAndMultilineCell(t *testing.T) {
	content := "\xEF\xBB\xBFName,When\n" +
		"\"multi\nline\",1/2/2024\n" +
		"beta,bad\n"

	result, err := runCSV(t, "rows.csv", content, &testProcessor{})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(result.Records) != 1 || result.Records[0].Name != "multi\nline" {
		t.Fatalf("Records = %+v, want the multi-line row", result.Records)
	}
	if len(result.Failures) != 1 || result.Failures[0].Line != 4 {
		t.Errorf("Failures = %+v, want one failure on line 4", result.Failures)
	}
}

func TestRunEmptyFileFailsHeaderCheck(t *testing.T) {
	_, err := runCSV(t, "rows.csv", "", &testProcessor{})
	if !errors.Is(err, ErrMissingHeaders) {
		t.Fatalf("Run() error = %v, want ErrMissingHeaders", err)
	}
}

func TestValidateHeaders(t *testing.T) {
	tests := []struct {
		name     string
		actual   []string
		required []string
		missing  []string
	}{
		{"all present", []string{"A", "B", "C"}, []string{"A", "C"}, nil},
		{"none required", []string{"A"}, nil, nil},
		{"one missing", []string{"A"}, []string{"A", "B"}, []string{"B"}},
		{"keeps declaration order", []string{}, []string{"Z", "A"}, []string{"Z", "A"}},
		{"case sensitive", []string{"ano"}, []string{"ANO"}, []string{"ANO"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateHeaders(tt.actual, tt.required)
			if tt.missing == nil {
				if err != nil {
					t.Fatalf("ValidateHeaders() error = %v, want nil", err)
				}
				return
			}
			var mh *MissingHeadersError
			if !errors.As(err, &mh) {
				t.Fatalf("ValidateHeaders() error = %v, want *MissingHeadersError", err)
			}
			if strings.Join(mh.Missing, "|") != strings.Join(tt.missing, "|") {
				t.Errorf("Missing = %v, want %v", mh.Missing, tt.missing)
			}
		})
	}
}

func TestFormatFromFilename(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"a.csv", FormatCSV, false},
		{"a.Csv", FormatCSV, false},
		{"dir/a.XLSX", FormatXLSX, false},
		{"a.xls", "", true},
		{"a.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		got, err := FormatFromFilename(tt.filename)
		if (err != nil) != tt.wantErr {
			t.Errorf("FormatFromFilename(%q) error = %v, wantErr %v", tt.filename, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("FormatFromFilename(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
