package services

import (
	"fmt"
	"time"
)

// Fixed UTC offsets for the supported pickup locale (America/Chicago),
// probed from the same-year January and July values rather than resolved
// through a timezone database. Correct for the standard US DST boundaries;
// other regions or historical dates are out of scope.
const (
	chicagoStandardOffset = -6 * 60 * 60
	chicagoDaylightOffset = -5 * 60 * 60
)

// secondSunday returns the day of month of the second Sunday.
func secondSunday(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (7 - int(first.Weekday())) % 7
	return 1 + offset + 7
}

// firstSunday returns the day of month of the first Sunday.
func firstSunday(year int, month time.Month) int {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	offset := (7 - int(first.Weekday())) % 7
	return 1 + offset
}

// chicagoOffsetSeconds returns the UTC offset in effect on the given local
// date and time. US daylight saving runs from 02:00 on the second Sunday of
// March through 02:00 on the first Sunday of November.
func chicagoOffsetSeconds(year int, month time.Month, day, hour int) int {
	switch {
	case month > time.March && month < time.November:
		return chicagoDaylightOffset
	case month == time.March:
		transition := secondSunday(year, time.March)
		if day > transition || (day == transition && hour >= 2) {
			return chicagoDaylightOffset
		}
		return chicagoStandardOffset
	case month == time.November:
		transition := firstSunday(year, time.November)
		if day < transition || (day == transition && hour < 2) {
			return chicagoDaylightOffset
		}
		return chicagoStandardOffset
	default:
		return chicagoStandardOffset
	}
}

// BuildPickupAt combines a local pickup date (2006-01-02) and time (15:04)
// into an RFC 3339 timestamp carrying the store's UTC offset.
func BuildPickupAt(date, timeOfDay string) (string, error) {
	day, err := time.Parse("2006-01-02", date)
	if err != nil {
		return "", fmt.Errorf("pickup: invalid date %q: %w", date, err)
	}
	clock, err := time.Parse("15:04", timeOfDay)
	if err != nil {
		clock, err = time.Parse("15:04:05", timeOfDay)
		if err != nil {
			return "", fmt.Errorf("pickup: invalid time %q: %w", timeOfDay, err)
		}
	}

	offset := chicagoOffsetSeconds(day.Year(), day.Month(), day.Day(), clock.Hour())
	zone := time.FixedZone("store", offset)
	at := time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), clock.Second(), 0, zone)
	return at.Format(time.RFC3339), nil
}
