package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// MaxAlarms is the per-user alarm quota.
const MaxAlarms = 2

// Weekday names a repeat day. Values match the wire format of the backend.
type Weekday string

const (
	Monday    Weekday = "Mon"
	Tuesday   Weekday = "Tue"
	Wednesday Weekday = "Wed"
	Thursday  Weekday = "Thu"
	Friday    Weekday = "Fri"
	Saturday  Weekday = "Sat"
	Sunday    Weekday = "Sun"
)

// Weekdays lists all repeat days in week order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayOrder = map[Weekday]int{
	Monday: 0, Tuesday: 1, Wednesday: 2, Thursday: 3, Friday: 4, Saturday: 5, Sunday: 6,
}

// timeWeekday maps time.Weekday onto the wire values.
var timeWeekday = map[time.Weekday]Weekday{
	time.Monday:    Monday,
	time.Tuesday:   Tuesday,
	time.Wednesday: Wednesday,
	time.Thursday:  Thursday,
	time.Friday:    Friday,
	time.Saturday:  Saturday,
	time.Sunday:    Sunday,
}

// Valid reports whether w is one of the seven known day values.
func (w Weekday) Valid() bool {
	_, ok := weekdayOrder[w]
	return ok
}

// Alarm is a user-owned rule pairing a location, a daily time, and a set of
// repeat days. The backend owns every field; see the package doc.
type Alarm struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Province   string    `json:"province"`
	City       string    `json:"city"`
	District   string    `json:"district"`
	AlarmTime  string    `json:"alarmTime"` // "HH:MM", 24-hour
	RepeatDays []Weekday `json:"repeatDays"`
	Enabled    bool      `json:"enabled"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CreateAlarmRequest is the body of POST /alarms.
type CreateAlarmRequest struct {
	Province   string    `json:"province"`
	City       string    `json:"city"`
	District   string    `json:"district"`
	AlarmTime  string    `json:"alarmTime"`
	RepeatDays []Weekday `json:"repeatDays"`
	Enabled    bool      `json:"enabled"`
}

// UpdateAlarmRequest is the partial body of PUT /alarms/{id}. Nil fields are
// omitted from the request and left unchanged by the backend.
type UpdateAlarmRequest struct {
	ID         string    `json:"-"`
	Province   *string   `json:"province,omitempty"`
	City       *string   `json:"city,omitempty"`
	District   *string   `json:"district,omitempty"`
	AlarmTime  *string   `json:"alarmTime,omitempty"`
	RepeatDays []Weekday `json:"repeatDays,omitempty"`
	Enabled    *bool     `json:"enabled,omitempty"`
}

// Location renders the administrative triple for display, e.g.
// "Seoul Gangnam Gangnam".
func (a Alarm) Location() string {
	return FormatLocation(a.Province, a.City, a.District)
}

// NextTrigger returns the next wall-clock time the alarm fires, computed
// from the package clock. Disabled alarms and alarms without a parseable
// time or any valid repeat day return the zero time.
func (a Alarm) NextTrigger() time.Time {
	if !a.Enabled {
		return time.Time{}
	}
	hour, minute, err := parseAlarmTime(a.AlarmTime)
	if err != nil {
		return time.Time{}
	}

	days := make(map[Weekday]bool, len(a.RepeatDays))
	for _, d := range a.RepeatDays {
		if d.Valid() {
			days[d] = true
		}
	}
	if len(days) == 0 {
		return time.Time{}
	}

	now := clock.Now()
	for offset := 0; offset <= 7; offset++ {
		day := now.AddDate(0, 0, offset)
		if !days[timeWeekday[day.Weekday()]] {
			continue
		}
		candidate := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
		if candidate.After(now) {
			return candidate
		}
	}
	return time.Time{}
}

// NormalizeRepeatDays drops duplicates and unknown values and returns the
// remaining days in week order. Repeat-day sets on the wire are unordered;
// this gives requests and comparisons a canonical form.
func NormalizeRepeatDays(days []Weekday) []Weekday {
	seen := make(map[Weekday]bool, len(days))
	for _, d := range days {
		if d.Valid() {
			seen[d] = true
		}
	}
	out := make([]Weekday, 0, len(seen))
	for _, d := range Weekdays {
		if seen[d] {
			out = append(out, d)
		}
	}
	return out
}

// FormatTime normalizes "H:MM" to zero-padded "HH:MM" for display and wire use.
func FormatTime(t string) string {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return t
	}
	hh := parts[0]
	if len(hh) == 1 {
		hh = "0" + hh
	}
	return hh + ":" + parts[1]
}

// FormatLocation joins the administrative triple with spaces for display.
func FormatLocation(province, city, district string) string {
	return fmt.Sprintf("%s %s %s", province, city, district)
}

func parseAlarmTime(t string) (hour, minute int, err error) {
	parts := strings.SplitN(t, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed alarm time %q", t)
	}
	hour, err = strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("alarm time hour out of range in %q", t)
	}
	minute, err = strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("alarm time minute out of range in %q", t)
	}
	return hour, minute, nil
}
