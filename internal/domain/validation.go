package domain

import (
	"errors"
	"regexp"
)

// PasswordMinLength is the minimum accepted password length.
const PasswordMinLength = 8

var (
	// Same shape the registration form checks: local@domain.tld with no
	// whitespace and exactly one @.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	timeRe  = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

	letterRe = regexp.MustCompile(`[a-zA-Z]`)
	digitRe  = regexp.MustCompile(`[0-9]`)
)

// Validators are pure: nil means valid, otherwise the returned error carries
// the fixed user-facing message. Forms run every field's validator and
// collect the results so multiple errors can be shown at once; nothing here
// short-circuits across fields.

// ValidateEmail checks presence and a simple local@domain.tld shape.
func ValidateEmail(email string) error {
	if email == "" {
		return errors.New(MsgEmailRequired)
	}
	if !emailRe.MatchString(email) {
		return errors.New(MsgEmailInvalid)
	}
	return nil
}

// ValidatePassword checks presence, minimum length, and that the password
// contains at least one letter and one digit.
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New(MsgPasswordRequired)
	}
	if len(password) < PasswordMinLength {
		return errors.New(MsgPasswordTooShort)
	}
	if !letterRe.MatchString(password) || !digitRe.MatchString(password) {
		return errors.New(MsgPasswordWeak)
	}
	return nil
}

// ValidatePasswordConfirm checks that the confirmation matches.
func ValidatePasswordConfirm(password, confirm string) error {
	if password != confirm {
		return errors.New(MsgPasswordMismatch)
	}
	return nil
}

// ValidateLocation checks that all three administrative levels are set.
// Whether the triple exists in the catalog is the location package's concern.
func ValidateLocation(province, city, district string) error {
	if province == "" || city == "" || district == "" {
		return errors.New(MsgLocationRequired)
	}
	return nil
}

// ValidateTime checks presence and the HH:MM 24-hour format.
func ValidateTime(t string) error {
	if t == "" {
		return errors.New(MsgTimeRequired)
	}
	if !timeRe.MatchString(t) {
		return errors.New(MsgTimeInvalid)
	}
	return nil
}

// ValidateRepeatDays checks that at least one repeat day is selected.
func ValidateRepeatDays(days []Weekday) error {
	if len(days) == 0 {
		return errors.New(MsgDaysRequired)
	}
	return nil
}
