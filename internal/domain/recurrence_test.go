package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateRepeatDates(t *testing.T) {
	// Понедельник, 16 июня 2025, 12:00
	monday := time.Date(2025, 6, 16, 12, 0, 0, 0, time.UTC)

	t.Run("weekly dates from nearest future weekday", func(t *testing.T) {
		dates := GenerateRepeatDates("Friday", 3, "18:00:00", monday)

		require.Len(t, dates, 3)
		assert.Equal(t, time.Date(2025, 6, 20, 0, 0, 0, 0, time.UTC), dates[0])
		assert.Equal(t, time.Date(2025, 6, 27, 0, 0, 0, 0, time.UTC), dates[1])
		assert.Equal(t, time.Date(2025, 7, 4, 0, 0, 0, 0, time.UTC), dates[2])
		for _, d := range dates {
			assert.Equal(t, time.Friday, d.Weekday())
		}
	})

	t.Run("today included before slot end time", func(t *testing.T) {
		dates := GenerateRepeatDates("Monday", 2, "18:00:00", monday)

		require.Len(t, dates, 2)
		assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), dates[0])
		assert.Equal(t, time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), dates[1])
	})

	t.Run("today skipped after slot end time", func(t *testing.T) {
		dates := GenerateRepeatDates("Monday", 2, "11:00:00", monday)

		require.Len(t, dates, 2)
		assert.Equal(t, time.Date(2025, 6, 23, 0, 0, 0, 0, time.UTC), dates[0])
		assert.Equal(t, time.Date(2025, 6, 30, 0, 0, 0, 0, time.UTC), dates[1])
	})

	t.Run("unknown day yields nothing", func(t *testing.T) {
		assert.Empty(t, GenerateRepeatDates("Someday", 3, "18:00:00", monday))
	})
}

func TestDateOnly(t *testing.T) {
	ts := time.Date(2025, 6, 16, 15, 42, 7, 123, time.UTC)
	assert.Equal(t, time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC), DateOnly(ts))
}
