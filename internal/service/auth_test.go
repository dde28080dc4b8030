package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JokerTrickster/weather-alarm/internal/adapter/api"
	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/observability"
	"github.com/JokerTrickster/weather-alarm/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClientStore(t *testing.T, handler http.Handler) (*api.Client, *storage.SessionStore) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	store := storage.New(t.TempDir())
	client := api.New(srv.URL, 5*time.Second, store, observability.NewMetricsForTesting(), testLogger())
	return client, store
}

func respond(t *testing.T, w http.ResponseWriter, data any) {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	w.Header().Set("Content-Type", "application/json")
	require.NoError(t, json.NewEncoder(w).Encode(domain.Envelope{Success: true, Data: raw}))
}

func TestAuth_Register_PersistsSession(t *testing.T) {
	user := domain.User{ID: "u-1", Email: "a@b.co"}

	client, store := testClientStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/register", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.co", body["email"])
		assert.Equal(t, "abc12345", body["password"])
		// The confirmation field never travels.
		_, hasConfirm := body["passwordConfirm"]
		assert.False(t, hasConfirm)

		respond(t, w, domain.LoginResponse{Token: "jwt", User: user})
	}))

	auth := NewAuth(client, store, testLogger())

	resp, err := auth.Register(context.Background(), domain.RegisterRequest{
		Email: "a@b.co", Password: "abc12345", PasswordConfirm: "abc12345",
	})
	require.NoError(t, err)
	assert.Equal(t, "jwt", resp.Token)
	assert.Equal(t, user, resp.User)

	assert.Equal(t, "jwt", store.Token())
	require.NotNil(t, store.User())
	assert.Equal(t, user, *store.User())
	assert.True(t, auth.IsAuthenticated())
}

func TestAuth_Login_FailureDoesNotPersist(t *testing.T) {
	client, store := testClientStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(domain.Envelope{Error: "invalid credentials"})
	}))

	auth := NewAuth(client, store, testLogger())

	_, err := auth.Login(context.Background(), domain.LoginRequest{Email: "a@b.co", Password: "wrong1234"})
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
}

func TestAuth_Logout_ClearsEverything(t *testing.T) {
	client, store := testClientStore(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		respond(t, w, nil)
	}))
	require.NoError(t, store.SetToken("jwt"))
	require.NoError(t, store.SetUser(domain.User{ID: "u-1"}))
	require.NoError(t, store.SetPushSubscription(domain.PushSubscription{Endpoint: "e"}))

	auth := NewAuth(client, store, testLogger())

	require.NoError(t, auth.Logout())
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
	assert.Nil(t, store.PushSubscription())
	assert.False(t, auth.IsAuthenticated())
}

func TestAuth_ResetPassword(t *testing.T) {
	var gotPath string
	client, store := testClientStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(t, w, nil)
	}))

	auth := NewAuth(client, store, testLogger())

	require.NoError(t, auth.ResetPassword(context.Background(), domain.ResetPasswordRequest{Email: "a@b.co"}))
	assert.Equal(t, "/auth/reset-password", gotPath)
}

func TestAuth_UpdatePassword(t *testing.T) {
	var gotPath string
	client, store := testClientStore(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		respond(t, w, nil)
	}))

	auth := NewAuth(client, store, testLogger())

	require.NoError(t, auth.UpdatePassword(context.Background(), domain.UpdatePasswordRequest{
		Token: "reset-token", NewPassword: "abc12345", NewPasswordConfirm: "abc12345",
	}))
	assert.Equal(t, "/auth/update-password", gotPath)
}
