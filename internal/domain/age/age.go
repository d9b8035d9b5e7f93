// Package age computes calendar-year ages and resolves age-bracketed
// threshold variants.
package age

import "time"

// At returns the age a person born on dob reaches by December 31 of year.
// Ages are counted in whole calendar years, so the birthday within the year
// is irrelevant. It returns nil when dob is unknown or after the reference date.
func At(dob *time.Time, year int) *int {
	if dob == nil || dob.IsZero() {
		return nil
	}
	a := year - dob.Year()
	if a < 0 {
		return nil
	}
	return &a
}

// Category is an inclusive age bracket carrying its own thresholds.
// A nil bound is open on that side.
type Category[T any] struct {
	AgeMin     *int `json:"ageMin,omitempty" yaml:"ageMin,omitempty"`
	AgeMax     *int `json:"ageMax,omitempty" yaml:"ageMax,omitempty"`
	Thresholds T    `json:"thresholds" yaml:"thresholds"`
}

// Contains reports whether age falls inside the bracket.
func (c Category[T]) Contains(age int) bool {
	if c.AgeMin != nil && age < *c.AgeMin {
		return false
	}
	if c.AgeMax != nil && age > *c.AgeMax {
		return false
	}
	return true
}

// Resolve picks the thresholds that apply at the given age: those of the
// first category containing it, or base when age is unknown, no categories
// exist, or none matches.
func Resolve[T any](base T, categories []Category[T], age *int) T {
	if age == nil || len(categories) == 0 {
		return base
	}
	for _, c := range categories {
		if c.Contains(*age) {
			return c.Thresholds
		}
	}
	return base
}
