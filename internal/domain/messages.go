package domain

// Fixed user-facing messages. The UI shows these verbatim, so tests compare
// against the constants rather than re-deriving the wording.
const (
	// Authentication.
	MsgEmailRequired    = "email is required"
	MsgEmailInvalid     = "invalid email format"
	MsgPasswordRequired = "password is required"
	MsgPasswordTooShort = "password must be at least 8 characters"
	MsgPasswordWeak     = "password must contain at least one letter and one digit"
	MsgPasswordMismatch = "passwords do not match"

	// Alarms.
	MsgMaxAlarmsReached = "at most 2 alarms can be registered"
	MsgLocationRequired = "province, city and district are all required"
	MsgTimeRequired     = "alarm time is required"
	MsgTimeInvalid      = "invalid time format, expected HH:MM"
	MsgDaysRequired     = "select at least one repeat day"

	// Request outcomes.
	MsgNetworkError        = "network error occurred, please try again"
	MsgUnknownError        = "an unknown error occurred"
	MsgUnauthorized        = "sign-in required"
	MsgForbidden           = "permission denied"
	MsgOperationInProgress = "another operation is in progress, please try again shortly"

	// Push.
	MsgPushUnsupported      = "push notifications are not supported here"
	MsgPushPermissionDenied = "notification permission was denied"
)
