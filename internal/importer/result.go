package importer

// Stage names the processor step a row failed in.
type Stage string

const (
	StageParse    Stage = "parse"
	StageValidate Stage = "validate"
	StageConvert  Stage = "convert"
)

// RowFailure is the diagnostic kept for a skipped row.
type RowFailure struct {
	Line   int               `json:"line"`
	Stage  Stage             `json:"stage"`
	Reason string            `json:"reason"`
	Values map[string]string `json:"values,omitempty"`
}

// Result holds the converted records in source order and one failure per
// rejected row. TotalRows counts every data row read, blank ones included.
type Result[R any] struct {
	Records   []R
	Failures  []RowFailure
	TotalRows int
	BlankRows int
}

func (r *Result[R]) ImportedCount() int {
	return len(r.Records)
}

func (r *Result[R]) ErrorCount() int {
	return len(r.Failures)
}
