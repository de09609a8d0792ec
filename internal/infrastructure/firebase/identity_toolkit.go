package firebase

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
)

const (
	defaultIdentityURL     = "https://identitytoolkit.googleapis.com/v1"
	defaultSecureTokenURL  = "https://securetoken.googleapis.com/v1"
	identityRequestTimeout = 10 * time.Second
)

// TokenPair is a Firebase ID token with the refresh token that renews it.
type TokenPair struct {
	UID          string `json:"uid"`
	IDToken      string `json:"id_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
}

// IdentityToolkit talks to the Firebase Auth REST API for the password
// sign-in and token refresh flows the Admin SDK does not offer.
type IdentityToolkit struct {
	apiKey         string
	identityURL    string
	secureTokenURL string
	httpClient     *http.Client
	cb             *gobreaker.CircuitBreaker
}

type IdentityOption func(*IdentityToolkit)

// WithEndpoints points the client at another host, such as the auth emulator.
func WithEndpoints(identityURL, secureTokenURL string) IdentityOption {
	return func(t *IdentityToolkit) {
		t.identityURL = strings.TrimRight(identityURL, "/")
		t.secureTokenURL = strings.TrimRight(secureTokenURL, "/")
	}
}

func WithHTTPClient(c *http.Client) IdentityOption {
	return func(t *IdentityToolkit) {
		t.httpClient = c
	}
}

func NewIdentityToolkit(apiKey string, opts ...IdentityOption) *IdentityToolkit {
	t := &IdentityToolkit{
		apiKey:         apiKey,
		identityURL:    defaultIdentityURL,
		secureTokenURL: defaultSecureTokenURL,
		httpClient:     &http.Client{Timeout: identityRequestTimeout},
	}
	for _, opt := range opts {
		opt(t)
	}

	t.cb = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "identity-toolkit",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		// Rejected credentials are answers, not outages.
		IsSuccessful: func(err error) bool {
			var apiErr *apiError
			return err == nil || stderrors.As(err, &apiErr)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker %s: %s -> %s", name, from, to)
		},
	})
	return t
}

type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("identity toolkit %d: %s", e.Status, e.Message)
}

func (t *IdentityToolkit) SignInWithPassword(ctx context.Context, email, password string) (*TokenPair, error) {
	body, err := json.Marshal(map[string]interface{}{
		"email":             email,
		"password":          password,
		"returnSecureToken": true,
	})
	if err != nil {
		return nil, errors.Internal("Failed to encode sign-in request", err)
	}

	var out struct {
		LocalID      string `json:"localId"`
		IDToken      string `json:"idToken"`
		RefreshToken string `json:"refreshToken"`
		ExpiresIn    string `json:"expiresIn"`
	}
	endpoint := fmt.Sprintf("%s/accounts:signInWithPassword?key=%s", t.identityURL, url.QueryEscape(t.apiKey))
	if err := t.do(ctx, endpoint, "application/json", bytes.NewReader(body), &out); err != nil {
		return nil, mapAuthError(err)
	}

	expires, _ := strconv.Atoi(out.ExpiresIn)
	return &TokenPair{UID: out.LocalID, IDToken: out.IDToken, RefreshToken: out.RefreshToken, ExpiresIn: expires}, nil
}

func (t *IdentityToolkit) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", refreshToken)

	var out struct {
		UserID       string `json:"user_id"`
		IDToken      string `json:"id_token"`
		RefreshToken string `json:"refresh_token"`
		ExpiresIn    string `json:"expires_in"`
	}
	endpoint := fmt.Sprintf("%s/token?key=%s", t.secureTokenURL, url.QueryEscape(t.apiKey))
	if err := t.do(ctx, endpoint, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()), &out); err != nil {
		var apiErr *apiError
		if stderrors.As(err, &apiErr) {
			return nil, errors.Unauthorized("Invalid refresh token", err)
		}
		return nil, mapAuthError(err)
	}

	expires, _ := strconv.Atoi(out.ExpiresIn)
	return &TokenPair{UID: out.UserID, IDToken: out.IDToken, RefreshToken: out.RefreshToken, ExpiresIn: expires}, nil
}

func (t *IdentityToolkit) do(ctx context.Context, endpoint, contentType string, body io.Reader, out interface{}) error {
	payload, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	_, err = t.cb.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", contentType)

		resp, err := t.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("identity toolkit status %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			var e struct {
				Error struct {
					Message string `json:"message"`
				} `json:"error"`
			}
			_ = json.Unmarshal(data, &e)
			return nil, &apiError{Status: resp.StatusCode, Message: e.Error.Message}
		}

		return nil, json.Unmarshal(data, out)
	})
	return err
}

// mapAuthError turns Identity Toolkit failures into the error codes the
// mobile client branches on.
func mapAuthError(err error) error {
	var apiErr *apiError
	if stderrors.As(err, &apiErr) {
		code := apiErr.Message
		if i := strings.Index(code, " "); i > 0 {
			code = code[:i]
		}
		switch code {
		case "EMAIL_NOT_FOUND", "INVALID_PASSWORD", "INVALID_LOGIN_CREDENTIALS", "INVALID_EMAIL", "USER_DISABLED":
			return errors.InvalidCredentials(err)
		case "EMAIL_EXISTS":
			return errors.EmailAlreadyInUse(err)
		case "WEAK_PASSWORD":
			return errors.WeakPassword(err)
		case "TOO_MANY_ATTEMPTS_TRY_LATER":
			return errors.TooManyRequests("Too many sign-in attempts, try again later")
		}
		return errors.Unauthorized("Authentication failed", err)
	}
	if stderrors.Is(err, gobreaker.ErrOpenState) || stderrors.Is(err, gobreaker.ErrTooManyRequests) {
		return errors.ServiceUnavailable("Authentication service unavailable", err)
	}
	return errors.Internal("Authentication request failed", err)
}
