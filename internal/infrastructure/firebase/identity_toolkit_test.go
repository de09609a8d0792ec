package firebase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhangari/pkg/errors"
)

func newTestToolkit(t *testing.T, handler http.HandlerFunc) *IdentityToolkit {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewIdentityToolkit("test-key", WithEndpoints(srv.URL, srv.URL), WithHTTPClient(srv.Client()))
}

func TestSignInWithPassword(t *testing.T) {
	tk := newTestToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts:signInWithPassword", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "a@b.com", body["email"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"localId":      "uid-1",
			"idToken":      "id-token",
			"refreshToken": "refresh-token",
			"expiresIn":    "3600",
		})
	})

	pair, err := tk.SignInWithPassword(context.Background(), "a@b.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "uid-1", pair.UID)
	assert.Equal(t, "id-token", pair.IDToken)
	assert.Equal(t, 3600, pair.ExpiresIn)
}

func TestSignInMapsProviderErrors(t *testing.T) {
	tests := []struct {
		message string
		code    string
	}{
		{"INVALID_PASSWORD", "INVALID_CREDENTIALS"},
		{"EMAIL_NOT_FOUND", "INVALID_CREDENTIALS"},
		{"INVALID_LOGIN_CREDENTIALS", "INVALID_CREDENTIALS"},
		{"TOO_MANY_ATTEMPTS_TRY_LATER : Access disabled", "TOO_MANY_REQUESTS"},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			tk := newTestToolkit(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":400,"message":"` + tt.message + `"}}`))
			})

			_, err := tk.SignInWithPassword(context.Background(), "a@b.com", "bad")
			assert.True(t, errors.Is(err, tt.code), "got %v", err)
		})
	}
}

func TestCredentialErrorsDoNotTripBreaker(t *testing.T) {
	var calls int32
	tk := newTestToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"INVALID_PASSWORD"}}`))
	})

	for i := 0; i < 10; i++ {
		_, err := tk.SignInWithPassword(context.Background(), "a@b.com", "bad")
		assert.True(t, errors.Is(err, "INVALID_CREDENTIALS"))
	}
	assert.Equal(t, int32(10), atomic.LoadInt32(&calls))
}

func TestServerErrorsOpenBreaker(t *testing.T) {
	var calls int32
	tk := newTestToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := tk.SignInWithPassword(context.Background(), "a@b.com", "x")
		assert.True(t, errors.Is(err, "INTERNAL_ERROR"))
	}

	_, err := tk.SignInWithPassword(context.Background(), "a@b.com", "x")
	assert.True(t, errors.Is(err, "SERVICE_UNAVAILABLE"))
	assert.Equal(t, int32(5), atomic.LoadInt32(&calls))
}

func TestRefresh(t *testing.T) {
	tk := newTestToolkit(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/token", r.URL.Path)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "refresh_token", r.PostForm.Get("grant_type"))

		if r.PostForm.Get("refresh_token") != "good" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":{"message":"INVALID_REFRESH_TOKEN"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"user_id":       "uid-1",
			"id_token":      "new-id",
			"refresh_token": "new-refresh",
			"expires_in":    "3600",
		})
	})

	pair, err := tk.Refresh(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "new-id", pair.IDToken)

	_, err = tk.Refresh(context.Background(), "bad")
	assert.True(t, errors.Is(err, "UNAUTHORIZED"))
}
