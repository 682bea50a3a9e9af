package dataset

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/jengzang/lastmile-backend-go/internal/models"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	time.RFC3339Nano,
	"2006/01/02",
	"2006/01/02 15:04:05",
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"02-Jan-2006",
}

// maxExcelSerial is 9999-12-31 in the 1900 date system
const maxExcelSerial = 2958465

// ParseDate parses an order date. Excel serial numbers are accepted for XLSX sources.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if isMissing(s) {
		return time.Time{}, fmt.Errorf("missing date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// hasClock reports whether t carries a time of day
func hasClock(t time.Time) bool {
	h, m, s := t.Clock()
	return h != 0 || m != 0 || s != 0 || t.Nanosecond() != 0
}

// FormatDate renders a date the way it is exported. withClock keeps the time of day.
func FormatDate(t time.Time, withClock bool) string {
	if withClock {
		return t.Format("2006-01-02 15:04:05")
	}
	return t.Format("2006-01-02")
}

// AnyClock reports whether any record's order date carries a time of day
func AnyClock(records []models.Delivery) bool {
	for i := range records {
		if hasClock(records[i].OrderDate) {
			return true
		}
	}
	return false
}
