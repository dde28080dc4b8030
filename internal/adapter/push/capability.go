// Package push abstracts the platform push service behind a small
// capability interface. The state layer only invokes this interface and
// mirrors the resulting subscription record; delivery itself belongs to the
// platform and the backend.
package push

import (
	"context"
	"errors"

	"github.com/JokerTrickster/weather-alarm/internal/domain"
)

// Capability is the platform push surface: permission management and
// subscription lifecycle.
type Capability interface {
	// IsSupported reports whether this installation can receive push
	// notifications at all.
	IsSupported() bool

	// PermissionStatus returns the current permission decision without
	// prompting.
	PermissionStatus() domain.PermissionStatus

	// RequestPermission resolves the permission decision, prompting the
	// user if none has been made. A previously denied decision is terminal
	// and returns an error.
	RequestPermission(ctx context.Context) (domain.PermissionStatus, error)

	// Subscribe creates a subscription with the push service. Permission
	// must already be granted.
	Subscribe(ctx context.Context) (domain.PushSubscription, error)

	// Unsubscribe tears down the platform subscription. A missing
	// subscription is not an error.
	Unsubscribe(ctx context.Context) error

	// CurrentSubscription returns the platform's subscription record, or
	// nil when none exists.
	CurrentSubscription() *domain.PushSubscription
}

// Unsupported is the capability of an installation without push support.
// Queries report absence and mutating calls fail with a fixed message,
// except Unsubscribe, which is a no-op so teardown paths stay idempotent.
type Unsupported struct{}

func (Unsupported) IsSupported() bool { return false }

func (Unsupported) PermissionStatus() domain.PermissionStatus { return domain.PermissionUnsupported }

func (Unsupported) RequestPermission(context.Context) (domain.PermissionStatus, error) {
	return domain.PermissionUnsupported, errors.New(domain.MsgPushUnsupported)
}

func (Unsupported) Subscribe(context.Context) (domain.PushSubscription, error) {
	return domain.PushSubscription{}, errors.New(domain.MsgPushUnsupported)
}

func (Unsupported) Unsubscribe(context.Context) error { return nil }

func (Unsupported) CurrentSubscription() *domain.PushSubscription { return nil }
