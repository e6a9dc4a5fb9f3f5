package model

import (
	"strconv"
	"strings"
	"time"
)

// AgeUnknown is displayed when the birth date is missing or unparseable
const AgeUnknown = "N/A"

// CalculateAge returns the number of completed years between dob and now.
// ok is false when dob is empty, unparseable, or after now.
func CalculateAge(dob string, now time.Time) (years int, ok bool) {
	birth, err := time.Parse(DateLayout, strings.TrimSpace(dob))
	if err != nil {
		return 0, false
	}
	// compare calendar dates; birth parses as UTC midnight whatever now's zone is
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if birth.After(today) {
		return 0, false
	}

	years = now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years, true
}

// AgeLabel formats CalculateAge for display, falling back to AgeUnknown
func AgeLabel(dob string, now time.Time) string {
	years, ok := CalculateAge(dob, now)
	if !ok {
		return AgeUnknown
	}
	return strconv.Itoa(years)
}
