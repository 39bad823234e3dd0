package domain

import (
	"time"

	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

// GenerateRepeatDates returns the dates of a recurring slot: repeatWeeks
// dates, each falling on dayOfWeek.
//
// When today matches dayOfWeek and the current time is before the slot's
// end time, today is included first and the weekly step continues from the
// next occurrence 7 days later. Otherwise the first date is the nearest
// future occurrence of the weekday.
//
// An unrecognized day name yields an empty slice; callers treat that as
// "nothing to generate".
func GenerateRepeatDates(dayOfWeek string, repeatWeeks int, endTime types.TimeString, now time.Time) []time.Time {
	target, ok := ParseWeekday(dayOfWeek)
	if !ok {
		return []time.Time{}
	}

	today := DateOnly(now)
	dates := make([]time.Time, 0, repeatWeeks)

	daysUntilTarget := (int(target) - int(now.Weekday()) + 7) % 7

	if daysUntilTarget == 0 {
		nowMinutes := now.Hour()*60 + now.Minute()
		if nowMinutes < endTime.Minutes() {
			dates = append(dates, today)
		}
		// Today's occurrence is accounted for (or already over); step a week ahead
		daysUntilTarget = 7
	}

	next := today.AddDate(0, 0, daysUntilTarget)
	for len(dates) < repeatWeeks {
		dates = append(dates, next)
		next = next.AddDate(0, 0, 7)
	}

	return dates
}

// DateOnly truncates a time to its calendar date
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
