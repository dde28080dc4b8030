package domain

import "time"

// SubscriptionKeys holds the client key material the push service issued.
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscription is the platform-issued credential that lets the backend
// deliver notifications to one installation. From the application's point of
// view it is opaque: present or absent.
type PushSubscription struct {
	Endpoint  string           `json:"endpoint"`
	Keys      SubscriptionKeys `json:"keys"`
	CreatedAt time.Time        `json:"createdAt,omitempty"`
}

// SubscribeRequest is the body of POST /notifications/subscribe.
type SubscribeRequest struct {
	Subscription PushSubscription `json:"subscription"`
}

// PermissionStatus is the user's notification-permission decision.
type PermissionStatus string

const (
	PermissionDefault     PermissionStatus = "default"
	PermissionGranted     PermissionStatus = "granted"
	PermissionDenied      PermissionStatus = "denied"
	PermissionUnsupported PermissionStatus = "unsupported"
)

// FineDustLevel is the four-step air-quality scale used in notifications.
type FineDustLevel string

const (
	FineDustGood     FineDustLevel = "good"
	FineDustModerate FineDustLevel = "moderate"
	FineDustBad      FineDustLevel = "bad"
	FineDustVeryBad  FineDustLevel = "very_bad"
)

// FineDust pairs the level with the measured value.
type FineDust struct {
	Level FineDustLevel `json:"level"`
	Value int           `json:"value"`
}

// WeatherReport is the payload carried inside a delivered push notification.
type WeatherReport struct {
	Location                 string   `json:"location"`
	Temperature              float64  `json:"temperature"`
	PrecipitationProbability int      `json:"precipitationProbability"`
	Humidity                 int      `json:"humidity"`
	FineDust                 FineDust `json:"fineDust"`
	Condition                string   `json:"condition"`
	Icon                     string   `json:"icon"`
}
