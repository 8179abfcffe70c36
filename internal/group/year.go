package group

import (
	"errors"
	"fmt"
)

const yearLen = 4

// Year extraction errors.
var (
	ErrMissingDate = errors.New("missing date")
	ErrInvalidDate = errors.New("date must start with a 4-digit year")
)

// Dated is implemented by items that carry a YYYY-... date string.
type Dated interface {
	DateString() string
}

// Year returns the leading four characters of a YYYY-... date string.
func Year(date string) (string, error) {
	if date == "" {
		return "", ErrMissingDate
	}
	if len(date) < yearLen {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	for i := range yearLen {
		if date[i] < '0' || date[i] > '9' {
			return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
		}
	}
	return date[:yearLen], nil
}

// GetYear returns the year of item's date.
func GetYear(item Dated) (string, error) {
	return Year(item.DateString())
}

// ByYear groups data by year in a single pass. It stops at the first item
// whose date has no year.
func ByYear[T Dated](data []T) (*Groups[T], error) {
	g := newGroups[T]()
	for i, item := range data {
		y, err := GetYear(item)
		if err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		g.add(y, item)
	}
	return g, nil
}
