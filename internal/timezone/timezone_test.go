package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsValid(t *testing.T) {
	assert.True(t, IsValid("UTC"))
	assert.True(t, IsValid("Asia/Kolkata"))
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("Mars/Olympus"))
}

func TestLocation_FallsBackToUTC(t *testing.T) {
	assert.Equal(t, time.UTC, Location("nowhere"))
	assert.Equal(t, "Asia/Kolkata", Location("Asia/Kolkata").String())
}

func TestDayBounds(t *testing.T) {
	// 20:00 UTC is already the next day in India (+05:30).
	at := time.Date(2026, 3, 10, 20, 0, 0, 0, time.UTC)

	start, end := DayBounds(at, "Asia/Kolkata")
	assert.Equal(t, time.Date(2026, 3, 10, 18, 30, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 3, 11, 18, 30, 0, 0, time.UTC), end)

	start, end = DayBounds(at, DefaultTimezone)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, 24*time.Hour, end.Sub(start))
}
