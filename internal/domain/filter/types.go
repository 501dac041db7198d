// Package filter describes advanced list filters passed by API clients.
package filter

// ComparisonType is the comparison applied by a filter item.
type ComparisonType string

const (
	Equal          ComparisonType = "eq"       // equal
	NotEqual       ComparisonType = "neq"      // not equal
	Less           ComparisonType = "lt"       // less than
	LessOrEqual    ComparisonType = "lte"      // less or equal
	Greater        ComparisonType = "gt"       // greater than
	GreaterOrEqual ComparisonType = "gte"      // greater or equal
	InList         ComparisonType = "in"       // value in list
	Contains       ComparisonType = "contains" // ILIKE %value%
)

// Item is a single filter row.
type Item struct {
	Field    string         `json:"field"`    // column name (snake_case)
	Operator ComparisonType `json:"operator"` // comparison
	Value    any            `json:"value"`    // scalar or array
}

// Valid reports whether the operator is supported.
func (c ComparisonType) Valid() bool {
	switch c {
	case Equal, NotEqual, Less, LessOrEqual, Greater, GreaterOrEqual, InList, Contains:
		return true
	}
	return false
}
