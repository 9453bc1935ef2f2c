package errors

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// WarningCode identifies a class of data-quality warning.
type WarningCode string

const (
	// WarnDuplicatePrefix means the prefix-to-college table mapped the
	// same prefix twice; last write wins.
	WarnDuplicatePrefix WarningCode = "DUPLICATE_PREFIX"
	// WarnUnknownCollege means a prefix resolved to the "Other" college.
	WarnUnknownCollege WarningCode = "UNKNOWN_COLLEGE"
	// WarnUnknownGrade means a letter grade outside the known alphabet
	// was encountered.
	WarnUnknownGrade WarningCode = "UNKNOWN_GRADE"
	// WarnUnknownTerm means a semester name outside Fall/Spring/Summer
	// was encountered, so the row has no calendar date.
	WarnUnknownTerm WarningCode = "UNKNOWN_TERM"
	// WarnSkippedRow means a row failed to parse and was skipped under
	// the lenient row policy.
	WarnSkippedRow WarningCode = "SKIPPED_ROW"
)

// Warning is a non-fatal data-quality finding. Warnings are reported but
// never halt processing.
type Warning struct {
	Code    WarningCode            `json:"code"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (w Warning) String() string {
	return fmt.Sprintf("[%s] %s", w.Code, w.Message)
}

// Report collects data-quality warnings across a pipeline run. It is safe
// for concurrent use so parallel passes can share one report.
type Report struct {
	mu       sync.Mutex
	warnings []Warning
}

// NewReport creates an empty warning report.
func NewReport() *Report {
	return &Report{}
}

// Add records a warning.
func (r *Report) Add(code WarningCode, message string, ctx map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.warnings = append(r.warnings, Warning{Code: code, Message: message, Context: ctx})
}

// Warnings returns a copy of the collected warnings.
func (r *Report) Warnings() []Warning {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Warning, len(r.warnings))
	copy(out, r.warnings)
	return out
}

// Len returns the number of collected warnings.
func (r *Report) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.warnings)
}

// Log emits every collected warning at WARN level.
func (r *Report) Log(ctx context.Context, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, w := range r.Warnings() {
		attrs := []any{slog.String("code", string(w.Code))}
		for k, v := range w.Context {
			attrs = append(attrs, slog.Any(k, v))
		}
		logger.WarnContext(ctx, w.Message, attrs...)
	}
}
