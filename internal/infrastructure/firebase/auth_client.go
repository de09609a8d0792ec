package firebase

import (
	"context"

	"firebase.google.com/go/v4/auth"

	"bhangari/pkg/errors"
)

// TokenInfo is what the API needs from a verified Firebase ID token.
type TokenInfo struct {
	UID      string
	Email    string
	Name     string
	Picture  string
	Provider string
}

type FirebaseAuthClient struct {
	client   *auth.Client
	identity *IdentityToolkit
}

func NewFirebaseAuthClient(client *auth.Client, identity *IdentityToolkit) *FirebaseAuthClient {
	return &FirebaseAuthClient{
		client:   client,
		identity: identity,
	}
}

func (f *FirebaseAuthClient) CreateUser(ctx context.Context, email, password, displayName string) (string, error) {
	params := (&auth.UserToCreate{}).
		Email(email).
		Password(password).
		DisplayName(displayName)

	user, err := f.client.CreateUser(ctx, params)
	if err != nil {
		if auth.IsEmailAlreadyExists(err) {
			return "", errors.EmailAlreadyInUse(err)
		}
		return "", errors.Internal("Failed to create user in authentication provider", err)
	}

	return user.UID, nil
}

func (f *FirebaseAuthClient) DeleteUser(ctx context.Context, uid string) error {
	return f.client.DeleteUser(ctx, uid)
}

func (f *FirebaseAuthClient) VerifyToken(ctx context.Context, token string) (*TokenInfo, error) {
	result, err := f.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, errors.Unauthorized("Invalid or expired token", err)
	}

	info := &TokenInfo{
		UID:      result.UID,
		Provider: result.Firebase.SignInProvider,
	}
	if v, ok := result.Claims["email"].(string); ok {
		info.Email = v
	}
	if v, ok := result.Claims["name"].(string); ok {
		info.Name = v
	}
	if v, ok := result.Claims["picture"].(string); ok {
		info.Picture = v
	}
	return info, nil
}

func (f *FirebaseAuthClient) SignIn(ctx context.Context, email, password string) (*TokenPair, error) {
	return f.identity.SignInWithPassword(ctx, email, password)
}

func (f *FirebaseAuthClient) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return f.identity.Refresh(ctx, refreshToken)
}
