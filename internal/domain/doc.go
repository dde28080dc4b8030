// Package domain models the weather-alarm client's data: users, alarms,
// push subscriptions, and the validation rules forms apply before any
// request leaves the process.
//
// # Alarm Conventions
//
// Location is a three-level administrative triple:
//
//	province → city → district, e.g. "Seoul" → "Gangnam" → "Gangnam".
//	Each level is required; a district only makes sense under its city,
//	a city only under its province. The catalog of valid triples lives in
//	the location package; validation here checks completeness only.
//
// Alarm time:
//
//	"HH:MM" in 24-hour wall-clock notation, e.g. "07:00". A single-digit
//	hour is accepted on input ("7:00") and normalized by FormatTime.
//
// Repeat days:
//
//	A non-empty set drawn from Mon..Sun. Insertion order carries no
//	meaning and duplicates are invalid; NormalizeRepeatDays dedupes and
//	sorts into week order before a request is sent.
//
// Quota:
//
//	A user holds at most MaxAlarms alarms. The server enforces this
//	authoritatively; the state layer rejects creates at capacity before
//	spending a round-trip.
//
// # Source of Truth
//
// Alarm entities are owned by the backend. The client never fabricates or
// mutates entity fields locally: every create, update, toggle, and delete
// takes the server's response as the final shape of the record, including
// server-assigned IDs and timestamps.
package domain
