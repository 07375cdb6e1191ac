package failure

// Severity drives control flow at the crawl-loop level.
// Fatal errors stop a run before or at the current cycle; recoverable
// errors terminate a single page's pagination chain only.
type Severity int

const (
	SeverityFatal Severity = iota
	SeverityRecoverable
)

type ClassifiedError interface {
	error
	Severity() Severity
}

// IsRecoverable reports whether err allows the run to continue with the
// remaining queued work.
func IsRecoverable(err ClassifiedError) bool {
	return err != nil && err.Severity() == SeverityRecoverable
}
