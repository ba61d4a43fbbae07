package render

import (
	"strings"
	"time"
)

// InvalidDate is shown when the provider timestamp cannot be parsed.
const InvalidDate = "Invalid Date"

const (
	providerTimeLayout = "2006-01-02 15:04"
	longDateLayout     = "Monday, January 2, 2006"
)

// FormatDate turns a provider local timestamp ("2024-12-16 11:30") into
// "Monday, December 16, 2024". Single-digit hours ("2024-12-16 9:05"), which
// the provider emits before 10:00, parse as well.
func FormatDate(localtime string) string {
	t, err := time.ParseInLocation(providerTimeLayout, strings.TrimSpace(localtime), time.Local)
	if err != nil {
		return InvalidDate
	}
	return t.Format(longDateLayout)
}
