package push

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JokerTrickster/weather-alarm/internal/domain"
)

const testServerKey = "BNtestServerKey"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLocal_IsSupported(t *testing.T) {
	assert.True(t, NewLocal(testServerKey, t.TempDir(), testLogger()).IsSupported())
	assert.False(t, NewLocal("", t.TempDir(), testLogger()).IsSupported())
	assert.False(t, NewLocal(testServerKey, "", testLogger()).IsSupported())
}

func TestLocal_PermissionLifecycle(t *testing.T) {
	l := NewLocal(testServerKey, t.TempDir(), testLogger())
	assert.Equal(t, domain.PermissionDefault, l.PermissionStatus())

	status, err := l.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, status)
	assert.Equal(t, domain.PermissionGranted, l.PermissionStatus())

	// Granted decisions short-circuit later requests.
	status, err = l.RequestPermission(context.Background())
	require.NoError(t, err)
	assert.Equal(t, domain.PermissionGranted, status)
}

func TestLocal_DeniedPermissionIsTerminal(t *testing.T) {
	l := NewLocal(testServerKey, t.TempDir(), testLogger(), WithPrompt(func() bool { return false }))

	_, err := l.RequestPermission(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.MsgPushPermissionDenied, err.Error())
	assert.Equal(t, domain.PermissionDenied, l.PermissionStatus())

	// Even a prompt that would now grant cannot revert the stored denial.
	granting := NewLocal(testServerKey, l.dir, testLogger())
	_, err = granting.RequestPermission(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.MsgPushPermissionDenied, err.Error())

	_, err = granting.Subscribe(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.MsgPushPermissionDenied, err.Error())
}

func TestLocal_SubscribeLifecycle(t *testing.T) {
	l := NewLocal(testServerKey, t.TempDir(), testLogger())
	assert.Nil(t, l.CurrentSubscription())

	sub, err := l.Subscribe(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, sub.Endpoint)
	assert.NotEmpty(t, sub.Keys.P256dh)
	assert.NotEmpty(t, sub.Keys.Auth)

	// Subscribing again reuses the existing credential.
	again, err := l.Subscribe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sub.Endpoint, again.Endpoint)

	current := l.CurrentSubscription()
	require.NotNil(t, current)
	assert.Equal(t, sub.Endpoint, current.Endpoint)

	require.NoError(t, l.Unsubscribe(context.Background()))
	assert.Nil(t, l.CurrentSubscription())

	// Unsubscribe with nothing registered stays a no-op.
	require.NoError(t, l.Unsubscribe(context.Background()))
}

func TestUnsupported(t *testing.T) {
	var c Capability = Unsupported{}

	assert.False(t, c.IsSupported())
	assert.Equal(t, domain.PermissionUnsupported, c.PermissionStatus())
	assert.Nil(t, c.CurrentSubscription())

	_, err := c.RequestPermission(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.MsgPushUnsupported, err.Error())

	_, err = c.Subscribe(context.Background())
	require.Error(t, err)
	assert.Equal(t, domain.MsgPushUnsupported, err.Error())

	assert.NoError(t, c.Unsubscribe(context.Background()))
}
