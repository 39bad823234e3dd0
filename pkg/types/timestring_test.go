package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTimeStringFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    TimeString
		wantErr bool
	}{
		{name: "full form", input: "09:30:00", want: "09:30:00"},
		{name: "short form is normalized", input: "09:30", want: "09:30:00"},
		{name: "midnight", input: "00:00", want: "00:00:00"},
		{name: "invalid hour", input: "25:00", wantErr: true},
		{name: "garbage", input: "nine thirty", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewTimeStringFromString(tt.input)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidTimeString)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTimeString_Minutes(t *testing.T) {
	assert.Equal(t, 0, TimeString("00:00:00").Minutes())
	assert.Equal(t, 570, TimeString("09:30:00").Minutes())
	assert.Equal(t, 1439, TimeString("23:59:00").Minutes())
}

func TestTimeString_Comparison(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("10:30").IsAfter("10:00"))
	assert.Equal(t, 90, TimeString("10:30").Sub("09:00"))
	assert.Equal(t, -90, TimeString("09:00").Sub("10:30"))
}

func TestTimeString_AddMinutes(t *testing.T) {
	shifted, err := TimeString("09:30:00").AddMinutes(45)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:15:00"), shifted)

	shifted, err = TimeString("09:30:00").AddMinutes(-30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:00:00"), shifted)

	_, err = TimeString("bad").AddMinutes(10)
	require.ErrorIs(t, err, ErrInvalidTimeString)
}

func TestTimeString_AtDate(t *testing.T) {
	date := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	at := TimeString("14:30:00").AtDate(date)
	assert.Equal(t, time.Date(2025, 6, 16, 14, 30, 0, 0, time.UTC), at)
}

func TestTimeString_JSON(t *testing.T) {
	data, err := json.Marshal(TimeString("09:30"))
	require.NoError(t, err)
	assert.Equal(t, `"09:30:00"`, string(data))

	var ts TimeString
	require.NoError(t, json.Unmarshal([]byte(`"14:00"`), &ts))
	assert.Equal(t, TimeString("14:00:00"), ts)

	assert.Error(t, json.Unmarshal([]byte(`"99:00"`), &ts))
}
