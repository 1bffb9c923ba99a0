package domain

import "strings"

// Category is the closed set of spending categories.
type Category string

const (
	CategoryFood     Category = "Food"
	CategoryTravel   Category = "Travel"
	CategoryFun      Category = "Fun"
	CategoryAcademic Category = "Academic"
	CategoryOther    Category = "Other"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryFood,
		CategoryTravel,
		CategoryFun,
		CategoryAcademic,
		CategoryOther,
	}
}

// ParseCategory resolves free-form input to a category, case-insensitively.
// Unknown values fall back to Other rather than erroring; classifier output
// is best-effort and must be accepted as-is.
func ParseCategory(s string) Category {
	for _, c := range Categories() {
		if strings.EqualFold(s, string(c)) {
			return c
		}
	}
	return CategoryOther
}
