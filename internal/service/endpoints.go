package service

import "fmt"

// Backend endpoint paths, relative to the client's base URL.
const (
	epRegister       = "/auth/register"
	epLogin          = "/auth/login"
	epResetPassword  = "/auth/reset-password"
	epUpdatePassword = "/auth/update-password"

	epAlarms = "/alarms"

	epSubscribe   = "/notifications/subscribe"
	epUnsubscribe = "/notifications/unsubscribe"
)

func epAlarm(id string) string       { return fmt.Sprintf("%s/%s", epAlarms, id) }
func epAlarmToggle(id string) string { return epAlarm(id) + "/toggle" }
