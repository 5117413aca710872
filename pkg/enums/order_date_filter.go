package enums

import "fmt"

// OrderDateFilter scopes order history reads to a business-day window.
type OrderDateFilter string

const (
	OrderDateFilterToday     OrderDateFilter = "today"
	OrderDateFilterYesterday OrderDateFilter = "yesterday"
	OrderDateFilterAll       OrderDateFilter = "all"
)

var validOrderDateFilters = []OrderDateFilter{
	OrderDateFilterToday,
	OrderDateFilterYesterday,
	OrderDateFilterAll,
}

// String implements fmt.Stringer.
func (f OrderDateFilter) String() string {
	return string(f)
}

// IsValid reports whether the value is a known OrderDateFilter.
func (f OrderDateFilter) IsValid() bool {
	for _, candidate := range validOrderDateFilters {
		if candidate == f {
			return true
		}
	}
	return false
}

// ParseOrderDateFilter converts raw input into an OrderDateFilter.
func ParseOrderDateFilter(value string) (OrderDateFilter, error) {
	if value == "" {
		return OrderDateFilterToday, nil
	}
	for _, candidate := range validOrderDateFilters {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid order date filter %q", value)
}
