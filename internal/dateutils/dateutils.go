// Package dateutils provides common date and time operations used throughout the application.
package dateutils

import (
	"time"
)

// Common date layout constants used throughout the application
const (
	DateLayoutISO      = "2006-01-02"
	DateLayoutEuropean = "02.01.2006"

	// X12 fixed-width numeric layouts
	DateLayoutCCYYMMDD = "20060102"
	DateLayoutYYMMDD   = "060102"
)

// FormatDate formats a time.Time value according to the specified layout
// If no layout is provided, DateLayoutISO is used
func FormatDate(date time.Time, layout string) string {
	if layout == "" {
		layout = DateLayoutISO
	}
	return date.Format(layout)
}

// ToISODate formats a time.Time value as an ISO date (YYYY-MM-DD)
func ToISODate(date time.Time) string {
	return date.Format(DateLayoutISO)
}
