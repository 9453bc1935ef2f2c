package dataprocessing

import "github.com/ryanbbrown/ut-grades-dashboard/pkg/contracts/domain"

// MonthDay anchors a term name on the calendar within its year.
type MonthDay struct {
	Month int
	Day   int
}

// Tables holds the fixed lookup data every enrichment derivation reads.
// It is immutable configuration passed into the Enricher, never package
// state, so the transformation stays pure and independently testable.
type Tables struct {
	// GradeToGPA maps a letter grade to its 4.0-scale value. "Other" is
	// deliberately absent: a missing entry means an undefined GPA.
	GradeToGPA map[string]float64

	// SimplifiedGrades collapses letter grades for the distribution
	// table. Currently only A+ folds into A.
	SimplifiedGrades map[string]string

	// NullDeptOverride fills in the department for prefixes whose rows
	// ship with an empty department field.
	NullDeptOverride map[string]string

	// TermDates maps a term name to the month and day that anchor it on
	// the calendar.
	TermDates map[string]MonthDay
}

// DefaultTables returns the lookup data for UT Austin grade exports.
func DefaultTables() Tables {
	return Tables{
		GradeToGPA: map[string]float64{
			"A+": 4.0, "A": 4.0, "A-": 3.67,
			"B+": 3.33, "B": 3.0, "B-": 2.67,
			"C+": 2.33, "C": 2.0, "C-": 1.67,
			"D+": 1.33, "D": 1.0, "D-": 0.67,
			"F": 0.0,
		},
		SimplifiedGrades: map[string]string{
			"A+": "A",
		},
		NullDeptOverride: map[string]string{
			"UDN": "Urban Design",
			"ECE": "Electrical Engineering",
		},
		TermDates: map[string]MonthDay{
			"Fall":   {Month: 8, Day: 25},
			"Spring": {Month: 1, Day: 20},
			"Summer": {Month: 6, Day: 1},
		},
	}
}

// knownGrade reports whether the letter grade is inside the alphabet the
// GPA table covers, or the "Other" bucket.
func (t Tables) knownGrade(grade string) bool {
	if grade == domain.GradeOther {
		return true
	}
	_, ok := t.GradeToGPA[grade]
	return ok
}
