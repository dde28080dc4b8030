package api

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

	"github.com/JokerTrickster/weather-alarm/internal/domain"
	"github.com/JokerTrickster/weather-alarm/internal/observability"
	"github.com/JokerTrickster/weather-alarm/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testClient(t *testing.T, baseURL string, opts ...Option) (*Client, *storage.SessionStore) {
	t.Helper()
	store := storage.New(t.TempDir())
	c := New(baseURL, 5*time.Second, store, observability.NewMetricsForTesting(), testLogger(), opts...)
	return c, store
}

func writeEnvelope(t *testing.T, w http.ResponseWriter, status int, env domain.Envelope) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	require.NoError(t, json.NewEncoder(w).Encode(env))
}

func TestClient_Get_UnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/alarms", r.URL.Path)
		writeEnvelope(t, w, http.StatusOK, domain.Envelope{
			Success: true,
			Data:    json.RawMessage(`[{"id":"a-1","province":"Seoul"}]`),
		})
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)

	var alarms []domain.Alarm
	require.NoError(t, c.Get(context.Background(), "/alarms", &alarms))
	require.Len(t, alarms, 1)
	assert.Equal(t, "a-1", alarms[0].ID)
	assert.Equal(t, "Seoul", alarms[0].Province)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(t, w, http.StatusOK, domain.Envelope{Success: true})
	}))
	defer srv.Close()

	c, store := testClient(t, srv.URL)
	require.NoError(t, store.SetToken("jwt-token"))

	require.NoError(t, c.Get(context.Background(), "/alarms", nil))
	assert.Equal(t, "Bearer jwt-token", gotAuth)
}

func TestClient_NoTokenSendsUnauthenticated(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		writeEnvelope(t, w, http.StatusOK, domain.Envelope{Success: true})
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)

	require.NoError(t, c.Post(context.Background(), "/auth/login", domain.LoginRequest{}, nil))
	assert.Empty(t, gotAuth)
}

func TestClient_Unauthorized_ClearsStoreAndInvokesHook(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(t, w, http.StatusUnauthorized, domain.Envelope{Error: "token expired"})
	}))
	defer srv.Close()

	hookCalled := false
	c, store := testClient(t, srv.URL, WithUnauthorizedHook(func() { hookCalled = true }))
	require.NoError(t, store.SetToken("stale"))
	require.NoError(t, store.SetUser(domain.User{ID: "u-1"}))
	require.NoError(t, store.SetPushSubscription(domain.PushSubscription{Endpoint: "e"}))

	err := c.Get(context.Background(), "/alarms", nil)
	require.Error(t, err)
	assert.Equal(t, domain.MsgUnauthorized, err.Error())

	assert.True(t, hookCalled)
	assert.Empty(t, store.Token())
	assert.Nil(t, store.User())
	assert.Nil(t, store.PushSubscription())
}

func TestClient_Forbidden(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeEnvelope(t, w, http.StatusForbidden, domain.Envelope{Error: "not yours"})
	}))
	defer srv.Close()

	c, store := testClient(t, srv.URL)
	require.NoError(t, store.SetToken("tok"))

	err := c.Delete(context.Background(), "/alarms/a-1")
	require.Error(t, err)
	assert.Equal(t, domain.MsgForbidden, err.Error())
	// 403 does not end the session.
	assert.Equal(t, "tok", store.Token())
}

func TestClient_ServerError_UsesEnvelopeMessage(t *testing.T) {
	tests := []struct {
		name string
		env  domain.Envelope
		want string
	}{
		{name: "error field preferred", env: domain.Envelope{Error: "alarm limit exceeded", Message: "bad request"}, want: "alarm limit exceeded"},
		{name: "message as fallback", env: domain.Envelope{Message: "bad request"}, want: "bad request"},
		{name: "fixed fallback", env: domain.Envelope{}, want: domain.MsgUnknownError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				writeEnvelope(t, w, http.StatusBadRequest, tt.env)
			}))
			defer srv.Close()

			c, _ := testClient(t, srv.URL)
			err := c.Post(context.Background(), "/alarms", domain.CreateAlarmRequest{}, nil)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestClient_ServerError_NonEnvelopeBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html>gateway exploded</html>"))
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	err := c.Get(context.Background(), "/alarms", nil)
	require.Error(t, err)
	assert.Equal(t, domain.MsgUnknownError, err.Error())
}

func TestClient_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // nothing listening anymore

	c, _ := testClient(t, srv.URL)
	err := c.Get(context.Background(), "/alarms", nil)
	require.Error(t, err)
	assert.Equal(t, domain.MsgNetworkError, err.Error())
}

func TestClient_Timeout_IsNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		writeEnvelope(t, w, http.StatusOK, domain.Envelope{Success: true})
	}))
	defer srv.Close()

	store := storage.New(t.TempDir())
	c := New(srv.URL, 50*time.Millisecond, store, observability.NewMetricsForTesting(), testLogger())

	err := c.Get(context.Background(), "/alarms", nil)
	require.Error(t, err)
	assert.Equal(t, domain.MsgNetworkError, err.Error())
}

func TestClient_UndecodableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c, _ := testClient(t, srv.URL)
	err := c.Get(context.Background(), "/alarms", nil)
	require.Error(t, err)
	assert.Equal(t, domain.MsgUnknownError, err.Error())
}
