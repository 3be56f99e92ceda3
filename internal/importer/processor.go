package importer

import "context"

// Identity is the authenticated user an import runs on behalf of.
type Identity struct {
	UserID   int    `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// Processor turns rows of one domain into records. D is the parsed draft and
// R the record handed to persistence.
//
// Parse only converts raw text into typed values, Validate checks structural
// rules without side effects, and Convert resolves references and stamps the
// record with the identity.
type Processor[D any, R any] interface {
	RequiredHeaders() []string
	Parse(row Row) (D, error)
	Validate(draft D) error
	Convert(ctx context.Context, draft D, identity Identity) (R, error)
}

// DateLayouter is implemented by processors that expect spreadsheet dates in
// a layout other than CanonicalDateLayout.
type DateLayouter interface {
	DateLayout() string
}
