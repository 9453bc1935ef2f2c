package dataprocessing

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/ryanbbrown/ut-grades-dashboard/internal/errors"
	"github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts/domain"
)

// nonDigits strips everything but digits from a course number.
var nonDigits = regexp.MustCompile(`\D`)

// EnricherConfig holds configuration options for the Enricher.
type EnricherConfig struct {
	// Strict aborts enrichment on the first row that fails to parse.
	// When false, failing rows are skipped and recorded as warnings.
	Strict bool
}

// Enricher derives every computed field of an EnrichedRecord. It is a
// pure, row-wise, total transformation: each derivation reads only its
// own row plus the fixed lookup tables and the prefix-to-college map,
// never another row, so rows can be processed in any order.
type Enricher struct {
	logger          *slog.Logger
	tables          Tables
	prefixToCollege map[string]string
	collegeSet      map[string]struct{}
	strict          bool
}

// NewEnricher creates an enricher over the given lookup data.
func NewEnricher(logger *slog.Logger, tables Tables, prefixToCollege map[string]string, cfg EnricherConfig) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{
		logger:          logger,
		tables:          tables,
		prefixToCollege: prefixToCollege,
		collegeSet:      CollegeSet(prefixToCollege),
		strict:          cfg.Strict,
	}
}

// Enrich derives all computed fields for one raw row. The returned error,
// if any, is a ParseError carrying the row-locating context. The report
// collects non-fatal data-quality findings.
func (e *Enricher) Enrich(raw domain.GradeRecord, rowIndex int, report *apperrors.Report) (domain.EnrichedRecord, error) {
	rec := domain.EnrichedRecord{GradeRecord: raw}

	count, err := parseStudentCount(raw.NumStudents)
	if err != nil {
		return rec, err.WithRow(raw.CoursePrefix, raw.Semester, rowIndex)
	}
	rec.StudentCount = count

	name, year, err := splitSemester(raw.Semester)
	if err != nil {
		return rec, err.WithRow(raw.CoursePrefix, raw.Semester, rowIndex)
	}
	rec.SemesterName = name
	rec.SemesterYear = year

	numeric, err := courseNumberNumeric(raw.CourseNumber)
	if err != nil {
		return rec, err.WithRow(raw.CoursePrefix, raw.Semester, rowIndex)
	}
	rec.CourseNumberInt = numeric
	rec.Division = divisionFor(numeric)

	rec.College = e.deriveCollege(raw.CoursePrefix)
	rec.Department = e.deriveDepartment(raw)
	rec.SectionNumber = sectionNumber(raw.CourseFullName)
	rec.SimplifiedGrade = e.simplifyGrade(raw.LetterGrade)
	rec.GPAPoints = e.gpaFor(rec.SimplifiedGrade)
	rec.CourseDisplayName = raw.CoursePrefix + " " + raw.CourseNumber
	rec.TermDate = e.termDate(name, year)

	if rec.GPAPoints.Valid {
		rec.GPAWeightedSum = domain.Float(rec.GPAPoints.Value * rec.StudentCount)
	}

	if report != nil {
		if !e.tables.knownGrade(raw.LetterGrade) {
			report.Add(apperrors.WarnUnknownGrade,
				"letter grade outside the known alphabet",
				map[string]interface{}{"letter_grade": raw.LetterGrade, "course_prefix": raw.CoursePrefix, "row_index": rowIndex})
		}
		if rec.College == domain.CollegeOther {
			report.Add(apperrors.WarnUnknownCollege,
				"course prefix resolves to the Other college",
				map[string]interface{}{"course_prefix": raw.CoursePrefix, "row_index": rowIndex})
		}
		if rec.TermDate.IsZero() {
			report.Add(apperrors.WarnUnknownTerm,
				"semester term name has no calendar anchor",
				map[string]interface{}{"semester": raw.Semester, "row_index": rowIndex})
		}
	}

	return rec, nil
}

// EnrichAll enriches every row under the configured row policy and
// returns the enriched set together with the ordered distinct semesters.
func (e *Enricher) EnrichAll(ctx context.Context, raws []domain.GradeRecord, report *apperrors.Report) ([]domain.EnrichedRecord, []string, error) {
	enriched := make([]domain.EnrichedRecord, 0, len(raws))

	for i, raw := range raws {
		rec, err := e.Enrich(raw, i, report)
		if err != nil {
			if e.strict {
				return nil, nil, err
			}
			e.logger.WarnContext(ctx, "skipping row that failed to parse",
				slog.String("course_prefix", raw.CoursePrefix),
				slog.String("semester", raw.Semester),
				slog.Int("row_index", i),
				slog.String("error", err.Error()))
			if report != nil {
				report.Add(apperrors.WarnSkippedRow, "row skipped under lenient parsing",
					map[string]interface{}{"course_prefix": raw.CoursePrefix, "semester": raw.Semester, "row_index": i})
			}
			continue
		}
		enriched = append(enriched, rec)
	}

	semesters := DistinctSemesters(enriched)

	e.logger.InfoContext(ctx, "enrichment complete",
		slog.Int("input_rows", len(raws)),
		slog.Int("enriched_rows", len(enriched)),
		slog.Int("semester_count", len(semesters)))

	return enriched, semesters, nil
}

// DistinctSemesters returns the unique semester strings ordered by term
// date ascending. The stable sort keeps rows with equal dates (including
// the zero-date sentinel for unknown terms) in input order, so the list
// is deterministic. Consumers reuse this ordering for per-semester slices.
func DistinctSemesters(records []domain.EnrichedRecord) []string {
	sorted := make([]domain.EnrichedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TermDate.Before(sorted[j].TermDate)
	})

	seen := make(map[string]struct{})
	var semesters []string
	for _, rec := range sorted {
		if _, ok := seen[rec.Semester]; ok {
			continue
		}
		seen[rec.Semester] = struct{}{}
		semesters = append(semesters, rec.Semester)
	}
	return semesters
}

// parseStudentCount parses the count string after removing thousands
// separators.
func parseStudentCount(s string) (float64, *apperrors.AppError) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, apperrors.NewParseError(fmt.Sprintf("student count %q is not numeric", s), err)
	}
	return v, nil
}

// splitSemester splits "<Term> <Year>" into its two tokens. Anything but
// exactly two whitespace-separated tokens is a parse failure; a missing
// space must never silently produce a malformed year.
func splitSemester(s string) (string, int, *apperrors.AppError) {
	tokens := strings.Fields(s)
	if len(tokens) != 2 {
		return "", 0, apperrors.NewParseError(fmt.Sprintf("semester %q is not of the form \"<Term> <Year>\"", s), nil)
	}
	year, err := strconv.Atoi(tokens[1])
	if err != nil {
		return "", 0, apperrors.NewParseError(fmt.Sprintf("semester year %q is not an integer", tokens[1]), err)
	}
	return tokens[0], year, nil
}

// courseNumberNumeric extracts the digits of a course number, discards
// the leading digit, and parses the remainder. "020" becomes 20.
func courseNumberNumeric(number string) (int, *apperrors.AppError) {
	digits := nonDigits.ReplaceAllString(number, "")
	if len(digits) < 2 {
		return 0, apperrors.NewParseError(fmt.Sprintf("course number %q has no numeric remainder", number), nil)
	}
	n, err := strconv.Atoi(digits[1:])
	if err != nil {
		return 0, apperrors.NewParseError(fmt.Sprintf("course number %q is not numeric", number), err)
	}
	return n, nil
}

// divisionFor classifies a numeric course number: [0,19] Lower,
// [20,79] Upper, [80,∞) Graduate.
func divisionFor(numeric int) domain.Division {
	switch {
	case numeric > 79:
		return domain.DivisionGraduate
	case numeric > 19:
		return domain.DivisionUpper
	default:
		return domain.DivisionLower
	}
}

// deriveCollege maps a prefix to its college. The mapped value counts
// only when it is in the known-college set; everything else, including
// prefixes with no mapping at all, is "Other".
func (e *Enricher) deriveCollege(prefix string) string {
	college, ok := e.prefixToCollege[prefix]
	if !ok {
		return domain.CollegeOther
	}
	if _, known := e.collegeSet[college]; !known {
		return domain.CollegeOther
	}
	return college
}

// deriveDepartment keeps the raw department unless it is empty, in which
// case the override table fills it in by prefix. The override touches the
// department only; the college decision above never sees it. That
// non-interaction is inherited from the source data pipeline and is
// preserved on purpose.
func (e *Enricher) deriveDepartment(raw domain.GradeRecord) string {
	if raw.Department != "" {
		return raw.Department
	}
	return e.tables.NullDeptOverride[raw.CoursePrefix]
}

// sectionNumber extracts the trailing section number: the text after the
// last "no." token of the course full name.
func sectionNumber(fullName string) string {
	parts := strings.Split(fullName, "no.")
	return strings.TrimSpace(parts[len(parts)-1])
}

// simplifyGrade collapses letter grades per the simplification table.
func (e *Enricher) simplifyGrade(grade string) string {
	if simplified, ok := e.tables.SimplifiedGrades[grade]; ok {
		return simplified
	}
	return grade
}

// gpaFor looks up the 4.0-scale value of a letter grade. Grades outside
// the table ("Other" included) have an undefined GPA; their weight must
// never silently count as zero.
func (e *Enricher) gpaFor(grade string) domain.OptionalFloat {
	if v, ok := e.tables.GradeToGPA[grade]; ok {
		return domain.Float(v)
	}
	return domain.OptionalFloat{}
}

// termDate anchors a semester on the calendar. Unknown term names map to
// the zero time sentinel rather than an error.
func (e *Enricher) termDate(termName string, year int) time.Time {
	md, ok := e.tables.TermDates[termName]
	if !ok {
		return time.Time{}
	}
	return time.Date(year, time.Month(md.Month), md.Day, 0, 0, 0, 0, time.UTC)
}
