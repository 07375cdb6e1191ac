package recipe

import (
	"fmt"

	"github.com/rohmanhakim/list-crawler/pkg/failure"
)

type RecipeErrorCause string

const (
	ErrCauseFileDoesNotExist  RecipeErrorCause = "recipe file does not exist"
	ErrCauseReadFailed        RecipeErrorCause = "failed to read recipe file"
	ErrCauseParseFailed       RecipeErrorCause = "failed to parse recipe file"
	ErrCauseMissingField      RecipeErrorCause = "missing required field"
	ErrCauseInvalidField      RecipeErrorCause = "invalid field value"
	ErrCauseUnknownPagination RecipeErrorCause = "unknown pagination type"
)

// RecipeError is always fatal: an invalid recipe means the run never
// starts and no fetch occurs.
type RecipeError struct {
	Message string
	Cause   RecipeErrorCause
}

func (e *RecipeError) Error() string {
	return fmt.Sprintf("recipe error: %s: %s", e.Cause, e.Message)
}

func (e *RecipeError) Severity() failure.Severity {
	return failure.SeverityFatal
}
