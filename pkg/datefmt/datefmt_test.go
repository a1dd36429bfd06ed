package datefmt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/text/language"
)

func TestRelative(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	now := time.Date(2024, 5, 10, 1, 0, 0, 0, loc)

	tests := []struct {
		name string
		t    time.Time
		want string
	}{
		{"earlier today", time.Date(2024, 5, 10, 0, 5, 0, 0, loc), "Today"},
		{"yesterday", time.Date(2024, 5, 9, 23, 59, 0, 0, loc), "Yesterday"},
		{"days ago", time.Date(2024, 5, 6, 12, 0, 0, 0, loc), "4 days ago"},
		{"six days", time.Date(2024, 5, 4, 0, 0, 0, 0, loc), "6 days ago"},
		{"a week", time.Date(2024, 5, 3, 12, 0, 0, 0, loc), "2024-05-03"},
		{"future", time.Date(2024, 5, 11, 0, 0, 0, 0, loc), "2024-05-11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Relative(now, tt.t, true, DateLayout, language.English))
		})
	}
}

func TestRelative_Disabled(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "10/05/2024", Relative(now, now, false, "02/01/2006", language.English))
}

func TestRelative_German(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "Heute", Relative(now, now, true, DateLayout, language.German))
	assert.Equal(t, "Gestern", Relative(now, now.AddDate(0, 0, -1), true, DateLayout, language.German))
	assert.Equal(t, "Vor 3 Tagen", Relative(now, now.AddDate(0, 0, -3), true, DateLayout, language.German))
}

func TestRelative_UnknownLanguageFallsBack(t *testing.T) {
	now := time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)
	assert.Equal(t, "2 days ago", Relative(now, now.AddDate(0, 0, -2), true, DateLayout, language.Japanese))
}

func TestDateKey(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	millis := time.Date(2024, 1, 2, 3, 4, 5, 0, loc).UnixMilli()
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, loc), DateKey(millis, loc))
}

func TestConvertEpochMillisZone(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*3600)
	millis := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC).UnixMilli()

	got := ConvertEpochMillisZone(millis, time.UTC, tokyo)
	assert.Equal(t, time.Date(2024, 1, 1, 12, 0, 0, 0, tokyo).UnixMilli(), got)
	assert.Equal(t, millis-9*3600*1000, got)
}

func TestFloorNearest(t *testing.T) {
	assert.Equal(t, int64(20), FloorNearest(29, 10))
	assert.Equal(t, int64(-30), FloorNearest(-21, 10))
	assert.Equal(t, int64(0), FloorNearest(0, DayMillis))
}

func TestTimestamps(t *testing.T) {
	ts := time.Date(2024, 3, 4, 17, 8, 0, 0, time.UTC)
	assert.Equal(t, "17:08", Timestamp(ts))
	assert.Equal(t, "2024-03-04 17:08", DateTimestamp(ts, DateLayout))
}
