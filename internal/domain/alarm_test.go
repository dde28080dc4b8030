package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

// 2025-05-05 is a Monday.
var testNow = time.Date(2025, time.May, 5, 6, 30, 0, 0, time.UTC)

func withFrozenClock(t *testing.T, at time.Time) {
	t.Helper()
	SetClock(clockwork.NewFakeClockAt(at))
	t.Cleanup(func() { SetClock(nil) })
}

func TestAlarm_NextTrigger_SameDay(t *testing.T) {
	withFrozenClock(t, testNow)

	a := Alarm{AlarmTime: "07:00", RepeatDays: []Weekday{Monday, Tuesday}, Enabled: true}
	next := a.NextTrigger()

	assert.Equal(t, time.Date(2025, time.May, 5, 7, 0, 0, 0, time.UTC), next)
}

func TestAlarm_NextTrigger_TimeAlreadyPassed(t *testing.T) {
	// 08:00 on Monday; a 07:00 Mon/Tue alarm next fires Tuesday.
	withFrozenClock(t, testNow.Add(90*time.Minute))

	a := Alarm{AlarmTime: "07:00", RepeatDays: []Weekday{Monday, Tuesday}, Enabled: true}
	next := a.NextTrigger()

	assert.Equal(t, time.Date(2025, time.May, 6, 7, 0, 0, 0, time.UTC), next)
}

func TestAlarm_NextTrigger_WrapsToNextWeek(t *testing.T) {
	// Monday 08:00 with a Monday-only 07:00 alarm → next Monday.
	withFrozenClock(t, testNow.Add(90*time.Minute))

	a := Alarm{AlarmTime: "07:00", RepeatDays: []Weekday{Monday}, Enabled: true}
	next := a.NextTrigger()

	assert.Equal(t, time.Date(2025, time.May, 12, 7, 0, 0, 0, time.UTC), next)
}

func TestAlarm_NextTrigger_Disabled(t *testing.T) {
	withFrozenClock(t, testNow)

	a := Alarm{AlarmTime: "07:00", RepeatDays: []Weekday{Monday}, Enabled: false}
	assert.True(t, a.NextTrigger().IsZero())
}

func TestAlarm_NextTrigger_NoUsableInput(t *testing.T) {
	withFrozenClock(t, testNow)

	assert.True(t, Alarm{AlarmTime: "07:00", Enabled: true}.NextTrigger().IsZero())
	assert.True(t, Alarm{AlarmTime: "bad", RepeatDays: []Weekday{Monday}, Enabled: true}.NextTrigger().IsZero())
}

func TestNormalizeRepeatDays(t *testing.T) {
	tests := []struct {
		name string
		in   []Weekday
		want []Weekday
	}{
		{name: "dedupes", in: []Weekday{Monday, Monday, Tuesday}, want: []Weekday{Monday, Tuesday}},
		{name: "week order", in: []Weekday{Sunday, Wednesday, Monday}, want: []Weekday{Monday, Wednesday, Sunday}},
		{name: "drops unknown values", in: []Weekday{"Funday", Friday}, want: []Weekday{Friday}},
		{name: "empty", in: nil, want: []Weekday{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeRepeatDays(tt.in))
		})
	}
}

func TestFormatTime(t *testing.T) {
	assert.Equal(t, "07:00", FormatTime("7:00"))
	assert.Equal(t, "23:59", FormatTime("23:59"))
	assert.Equal(t, "0700", FormatTime("0700")) // not parseable, returned as-is
}

func TestFormatLocation(t *testing.T) {
	assert.Equal(t, "Seoul Gangnam Gangnam", FormatLocation("Seoul", "Gangnam", "Gangnam"))
}
