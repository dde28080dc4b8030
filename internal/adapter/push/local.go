package push

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/google/uuid"

	"github.com/JokerTrickster/weather-alarm/internal/domain"
)

const (
	permissionFile   = "push_permission"
	subscriptionFile = "push_platform_subscription.json"
)

// Local implements Capability for installations without a browser push
// runtime. It plays the platform's role: it remembers the permission
// decision and mints subscription credentials (a uuid endpoint plus
// webpush-style key material) that the backend can store like any other
// subscription. Records live beside the session store's files.
type Local struct {
	serverKey string // application server (VAPID) public key
	dir       string
	prompt    func() bool
	logger    *slog.Logger
}

// LocalOption configures the local capability.
type LocalOption func(*Local)

// WithPrompt installs the user-facing permission prompt. The default grants.
func WithPrompt(prompt func() bool) LocalOption {
	return func(l *Local) {
		l.prompt = prompt
	}
}

// NewLocal creates the local push capability. serverKey is the backend's
// VAPID public key; subscriptions are bound to it the way a browser binds a
// subscription to applicationServerKey.
func NewLocal(serverKey, dir string, logger *slog.Logger, opts ...LocalOption) *Local {
	l := &Local{
		serverKey: serverKey,
		dir:       dir,
		prompt:    func() bool { return true },
		logger:    logger,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *Local) IsSupported() bool {
	return l.serverKey != "" && l.dir != ""
}

func (l *Local) PermissionStatus() domain.PermissionStatus {
	if !l.IsSupported() {
		return domain.PermissionUnsupported
	}
	raw, err := os.ReadFile(filepath.Join(l.dir, permissionFile))
	if err != nil {
		return domain.PermissionDefault
	}
	switch domain.PermissionStatus(raw) {
	case domain.PermissionGranted:
		return domain.PermissionGranted
	case domain.PermissionDenied:
		return domain.PermissionDenied
	default:
		return domain.PermissionDefault
	}
}

func (l *Local) RequestPermission(_ context.Context) (domain.PermissionStatus, error) {
	if !l.IsSupported() {
		return domain.PermissionUnsupported, errors.New(domain.MsgPushUnsupported)
	}

	switch l.PermissionStatus() {
	case domain.PermissionGranted:
		return domain.PermissionGranted, nil
	case domain.PermissionDenied:
		// A denied decision can only be reverted out of band, mirroring the
		// browser's permission model.
		return domain.PermissionDenied, errors.New(domain.MsgPushPermissionDenied)
	}

	status := domain.PermissionDenied
	if l.prompt() {
		status = domain.PermissionGranted
	}
	if err := l.writeFile(permissionFile, []byte(status)); err != nil {
		return domain.PermissionDefault, err
	}
	if status == domain.PermissionDenied {
		return domain.PermissionDenied, errors.New(domain.MsgPushPermissionDenied)
	}
	return domain.PermissionGranted, nil
}

func (l *Local) Subscribe(ctx context.Context) (domain.PushSubscription, error) {
	status, err := l.RequestPermission(ctx)
	if err != nil {
		return domain.PushSubscription{}, err
	}
	if status != domain.PermissionGranted {
		return domain.PushSubscription{}, errors.New(domain.MsgPushPermissionDenied)
	}

	if existing := l.CurrentSubscription(); existing != nil {
		return *existing, nil
	}

	sub, err := l.mintSubscription()
	if err != nil {
		return domain.PushSubscription{}, err
	}

	raw, err := json.Marshal(sub)
	if err != nil {
		return domain.PushSubscription{}, fmt.Errorf("marshal subscription: %w", err)
	}
	if err := l.writeFile(subscriptionFile, raw); err != nil {
		return domain.PushSubscription{}, err
	}

	l.logger.Info("platform subscription created", "endpoint", sub.Endpoint)
	return sub, nil
}

func (l *Local) Unsubscribe(_ context.Context) error {
	if !l.IsSupported() {
		return nil
	}
	err := os.Remove(filepath.Join(l.dir, subscriptionFile))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove subscription: %w", err)
	}
	return nil
}

func (l *Local) CurrentSubscription() *domain.PushSubscription {
	if !l.IsSupported() {
		return nil
	}
	raw, err := os.ReadFile(filepath.Join(l.dir, subscriptionFile))
	if err != nil {
		return nil
	}
	var sub domain.PushSubscription
	if err := json.Unmarshal(raw, &sub); err != nil {
		return nil
	}
	return &sub
}

// mintSubscription fabricates the credential a push service would issue:
// an opaque per-installation endpoint, an ECDH public key, and an auth
// secret. The key pair comes from the same P-256 generator web push uses
// for VAPID keys.
func (l *Local) mintSubscription() (domain.PushSubscription, error) {
	_, p256dh, err := webpush.GenerateVAPIDKeys()
	if err != nil {
		return domain.PushSubscription{}, fmt.Errorf("generate subscription keys: %w", err)
	}

	auth := make([]byte, 16)
	if _, err := rand.Read(auth); err != nil {
		return domain.PushSubscription{}, fmt.Errorf("generate auth secret: %w", err)
	}

	return domain.PushSubscription{
		Endpoint: "https://push.local/send/" + uuid.NewString(),
		Keys: domain.SubscriptionKeys{
			P256dh: p256dh,
			Auth:   base64.RawURLEncoding.EncodeToString(auth),
		},
		CreatedAt: time.Now().UTC(),
	}, nil
}

func (l *Local) writeFile(name string, raw []byte) error {
	if err := os.MkdirAll(l.dir, 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(l.dir, name), raw, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}
