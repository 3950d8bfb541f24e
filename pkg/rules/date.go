package rules

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slashDatePattern = regexp.MustCompile(`^(0[1-9]|1[0-2])\/(0[1-9]|[12]\d|3[01])\/\d{4}$`)
)

// DateOfBirth is optional. It accepts YYYY-MM-DD or MM/DD/YYYY, chosen by the
// separator present in the value, and rejects strings that do not name a real
// calendar day.
//
// Hyphenated values that match the pattern but not the calendar report
// MsgDateInvalid. Slash values are held to the stricter slash format, so an
// impossible day such as 02/30/2024 reports MsgDateSlashFormat.
func DateOfBirth(field Context) string {
	value := field.Value()
	if value == "" {
		return ""
	}

	switch {
	case strings.Contains(value, "-"):
		if !isoDatePattern.MatchString(value) {
			return MsgDateHyphenFormat
		}
		parts := strings.Split(value, "-")
		if !calendarDate(parts[0], parts[1], parts[2]) {
			return MsgDateInvalid
		}
	case strings.Contains(value, "/"):
		if !slashDatePattern.MatchString(value) {
			return MsgDateSlashFormat
		}
		parts := strings.Split(value, "/")
		if !calendarDate(parts[2], parts[0], parts[1]) {
			return MsgDateSlashFormat
		}
	default:
		return MsgDateFormat
	}
	return ""
}

func calendarDate(year, month, day string) bool {
	y, err := strconv.Atoi(year)
	if err != nil {
		return false
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return false
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 {
		return false
	}
	t := time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
	return t.Year() == y && int(t.Month()) == m && t.Day() == d
}
