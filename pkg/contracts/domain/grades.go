package domain

import (
	"time"
)

// GradeRecord represents one raw grade-distribution row: a single letter
// grade bucket for one course section in one semester, exactly as it
// appears in the registrar export. Numeric-looking fields are kept as
// strings here; the enricher owns all parsing.
type GradeRecord struct {
	CoursePrefix   string `json:"course_prefix" csv:"course_prefix" validate:"required"`
	CourseNumber   string `json:"course_number" csv:"course_number" validate:"required"`
	Department     string `json:"department" csv:"department"`
	Semester       string `json:"semester" csv:"semester" validate:"required"`
	LetterGrade    string `json:"letter_grade" csv:"letter_grade" validate:"required"`
	NumStudents    string `json:"num_students" csv:"num_students" validate:"required"`
	CourseFullName string `json:"course_full_name" csv:"course_full_name"`
}

// OptionalFloat is a float64 that can be undefined. It replaces the NaN
// sentinel the source data uses for "no GPA": a letter grade of "Other"
// has no grade-point value, and an empty aggregation group has no average.
type OptionalFloat struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Float returns a defined OptionalFloat.
func Float(v float64) OptionalFloat {
	return OptionalFloat{Value: v, Valid: true}
}

// Division classifies a course by its numeric course number.
type Division string

const (
	DivisionLower    Division = "Lower"
	DivisionUpper    Division = "Upper"
	DivisionGraduate Division = "Graduate"
)

// EnrichedRecord is a GradeRecord plus every derived field the aggregators
// consume. Records are immutable once enriched; each derivation depends
// only on the raw row and the fixed lookup tables, never on other rows.
type EnrichedRecord struct {
	GradeRecord

	College           string        `json:"college"`
	StudentCount      float64       `json:"student_count"`
	SectionNumber     string        `json:"section_number"`
	SimplifiedGrade   string        `json:"simplified_letter_grade"`
	GPAPoints         OptionalFloat `json:"gpa_points"`
	GPAWeightedSum    OptionalFloat `json:"gpa_weighted_sum"`
	SemesterName      string        `json:"semester_name"`
	SemesterYear      int           `json:"semester_year"`
	CourseDisplayName string        `json:"course_display_name"`
	CourseNumberInt   int           `json:"course_number_numeric"`
	Division          Division      `json:"division"`

	// TermDate anchors the semester on the calendar so semesters can be
	// ordered chronologically. It is the zero time when the term name is
	// not one of Fall/Spring/Summer.
	TermDate time.Time `json:"term_date"`
}

const (
	// GradeOther is the catch-all letter grade bucket. It carries no
	// grade-point value.
	GradeOther = "Other"
	// SemesterAll labels the aggregate slice spanning every semester.
	SemesterAll = "All"
	// CollegeOther is the sentinel for prefixes whose college is not in
	// the known set.
	CollegeOther = "Other"
)

// Logical table names used between the aggregator and any sink.
const (
	TablePrefixSummary     = "prefix summary"
	TableCourseSummary     = "course summary"
	TableGradeDistribution = "grade distribution"
)

// PrefixSummaryRow is one aggregate row of the prefix summary table.
// Semester is either "All" or a literal semester string.
type PrefixSummaryRow struct {
	Semester      string        `json:"semester"`
	College       string        `json:"college"`
	CoursePrefix  string        `json:"course_prefix"`
	Department    string        `json:"department"`
	TotalStudents float64       `json:"total_students"`
	AverageGrade  OptionalFloat `json:"average_grade"`
}

// CourseSummaryRow is one aggregate row of the course summary table.
type CourseSummaryRow struct {
	Semester      string        `json:"semester"`
	College       string        `json:"college"`
	CoursePrefix  string        `json:"course_prefix"`
	CourseNumber  string        `json:"course_number"`
	Department    string        `json:"department"`
	CourseName    string        `json:"course_name"`
	Division      Division      `json:"division"`
	TotalStudents float64       `json:"total_students"`
	AverageGrade  OptionalFloat `json:"average_grade"`
}

// GradeDistributionRow is one aggregate row of the grade distribution
// table. There is no average here: the table IS the distribution.
// GradePoints is undefined for the "Other" letter grade.
type GradeDistributionRow struct {
	Semester      string        `json:"semester"`
	College       string        `json:"college"`
	CoursePrefix  string        `json:"course_prefix"`
	CourseNumber  string        `json:"course_number"`
	Department    string        `json:"department"`
	LetterGrade   string        `json:"letter_grade"`
	GradePoints   OptionalFloat `json:"grade_points"`
	CourseName    string        `json:"course_name"`
	TotalStudents float64       `json:"total_students"`
}

// TableSet is the complete output of one pipeline run: the three derived
// tables plus the ordered distinct semester list they were built from.
// Partial sets are never valid output.
type TableSet struct {
	Semesters         []string               `json:"semesters"`
	PrefixSummary     []PrefixSummaryRow     `json:"prefix_summary"`
	CourseSummary     []CourseSummaryRow     `json:"course_summary"`
	GradeDistribution []GradeDistributionRow `json:"grade_distribution"`

	GeneratedAt time.Time `json:"generated_at"`
}
