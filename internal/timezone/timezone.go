package timezone

import "time"

const DefaultTimezone = "UTC"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.UTC
}

func NowIn(tz string) time.Time {
	return time.Now().In(Location(tz))
}

// DayBounds returns the UTC instants delimiting the calendar day of t as
// seen in the shop's timezone: [start, end).
func DayBounds(t time.Time, tz string) (time.Time, time.Time) {
	local := t.In(Location(tz))
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
	return start.UTC(), start.AddDate(0, 0, 1).UTC()
}
