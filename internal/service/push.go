package service

import (
	"context"
	"log/slog"

	"github.com/JokerTrickster/weather-alarm/internal/adapter/api"
	"github.com/JokerTrickster/weather-alarm/internal/adapter/push"
	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/observability"
	"github.com/JokerTrickster/weather-alarm/internal/storage"
)

// Push registers the platform subscription with the backend and mirrors it
// into the session store.
type Push struct {
	client     *api.Client
	store      *storage.SessionStore
	capability push.Capability
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewPush creates the push service.
func NewPush(client *api.Client, store *storage.SessionStore, capability push.Capability, metrics *observability.Metrics, logger *slog.Logger) *Push {
	return &Push{client: client, store: store, capability: capability, metrics: metrics, logger: logger}
}

// Subscribe runs the full opt-in flow: permission, platform subscription,
// backend registration, local mirror. Any step failing aborts the flow with
// that step's error.
func (p *Push) Subscribe(ctx context.Context) (domain.PushSubscription, error) {
	sub, err := p.capability.Subscribe(ctx)
	if err != nil {
		return domain.PushSubscription{}, err
	}

	if err := p.client.Post(ctx, epSubscribe, domain.SubscribeRequest{Subscription: sub}, nil); err != nil {
		return domain.PushSubscription{}, err
	}

	if err := p.store.SetPushSubscription(sub); err != nil {
		p.logger.Warn("mirror subscription failed", "error", err)
	}
	p.metrics.PushSubscribed.Set(1)

	return sub, nil
}

// Unsubscribe tears the subscription down: platform first, then backend,
// then the local mirror. Without a platform subscription it does nothing.
func (p *Push) Unsubscribe(ctx context.Context) error {
	if p.capability.CurrentSubscription() == nil {
		return nil
	}

	if err := p.capability.Unsubscribe(ctx); err != nil {
		return err
	}
	if err := p.client.Post(ctx, epUnsubscribe, nil, nil); err != nil {
		return err
	}
	if err := p.store.RemovePushSubscription(); err != nil {
		p.logger.Warn("remove subscription mirror failed", "error", err)
	}
	p.metrics.PushSubscribed.Set(0)

	return nil
}

// Subscription returns the platform's current subscription record, or nil.
func (p *Push) Subscription() *domain.PushSubscription {
	return p.capability.CurrentSubscription()
}

// IsSupported reports whether push is available on this installation.
func (p *Push) IsSupported() bool {
	return p.capability.IsSupported()
}

// PermissionStatus returns the permission decision without prompting.
func (p *Push) PermissionStatus() domain.PermissionStatus {
	return p.capability.PermissionStatus()
}
