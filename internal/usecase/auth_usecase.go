package usecase

import (
	"context"
	"strings"
	"time"

	"bhangari/internal/domain/entity"
	"bhangari/internal/domain/repository"
	"bhangari/internal/infrastructure/firebase"
	"bhangari/pkg/errors"
	"bhangari/pkg/logger"
	"bhangari/pkg/utils"
)

const minPasswordLength = 6

type AuthUseCase struct {
	userRepo     repository.UserRepository
	firebaseAuth FirebaseAuthClient
	now          func() time.Time
}

func NewAuthUseCase(userRepo repository.UserRepository, firebaseAuth FirebaseAuthClient) *AuthUseCase {
	return &AuthUseCase{
		userRepo:     userRepo,
		firebaseAuth: firebaseAuth,
		now:          time.Now,
	}
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Phone    string
	Role     string
}

type AuthResult struct {
	User    *entity.User        `json:"user"`
	Token   *firebase.TokenPair `json:"token"`
	Created bool                `json:"created"`
}

func validRole(role string) bool {
	return role == entity.RoleHousehold || role == entity.RoleCollector
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := strings.ToLower(strings.TrimSpace(input.Email))
	name := strings.TrimSpace(input.Name)
	phone := utils.ToASCIIDigits(strings.TrimSpace(input.Phone))

	if !validRole(input.Role) {
		return nil, errors.Validation("Role must be household or collector")
	}
	if name == "" {
		return nil, errors.Validation("Name is required")
	}
	if len(input.Password) < minPasswordLength {
		return nil, errors.WeakPassword(nil)
	}
	if !utils.IsValidPhone(phone) {
		return nil, errors.Validation("Phone number must be a valid Bangladeshi mobile number")
	}

	// an OAuth profile may hold the address without a password account
	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, errors.EmailAlreadyInUse(nil)
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	uid, err := uc.firebaseAuth.CreateUser(ctx, email, input.Password, name)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	user := &entity.User{
		ID:           uid,
		Name:         name,
		Email:        email,
		Phone:        phone,
		Role:         input.Role,
		AuthProvider: "password",
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		// keep auth and profile in step
		if delErr := uc.firebaseAuth.DeleteUser(ctx, uid); delErr != nil {
			logger.Error("Failed to roll back auth user %s: %v", uid, delErr)
		}
		return nil, err
	}

	token, err := uc.firebaseAuth.SignIn(ctx, email, input.Password)
	if err != nil {
		return nil, err
	}

	logger.Info("Registered %s %s", user.Role, user.ID)
	return &AuthResult{User: user, Token: token, Created: true}, nil
}

func (uc *AuthUseCase) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	token, err := uc.firebaseAuth.SignIn(ctx, strings.ToLower(strings.TrimSpace(email)), password)
	if err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetByID(ctx, token.UID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Unauthorized("No profile exists for this account", err)
		}
		return nil, err
	}

	return &AuthResult{User: user, Token: token}, nil
}

type OAuthInput struct {
	IDToken string
	Role    string
	Phone   string
}

// OAuthSignIn accepts an ID token from a federated sign-in and creates the
// profile the first time the account is seen.
func (uc *AuthUseCase) OAuthSignIn(ctx context.Context, input OAuthInput) (*AuthResult, error) {
	info, err := uc.firebaseAuth.VerifyToken(ctx, input.IDToken)
	if err != nil {
		return nil, err
	}
	token := &firebase.TokenPair{UID: info.UID, IDToken: input.IDToken}

	user, err := uc.userRepo.GetByID(ctx, info.UID)
	if err == nil {
		return &AuthResult{User: user, Token: token}, nil
	}
	if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	if !validRole(input.Role) {
		return nil, errors.Validation("Role is required on first sign-in")
	}
	phone := utils.ToASCIIDigits(strings.TrimSpace(input.Phone))
	if phone != "" && !utils.IsValidPhone(phone) {
		return nil, errors.Validation("Phone number must be a valid Bangladeshi mobile number")
	}

	name := info.Name
	if name == "" {
		name, _, _ = strings.Cut(info.Email, "@")
	}
	provider := info.Provider
	if provider == "" {
		provider = "custom"
	}

	now := uc.now()
	user = &entity.User{
		ID:           info.UID,
		Name:         name,
		Email:        strings.ToLower(info.Email),
		Phone:        phone,
		Role:         input.Role,
		PhotoURL:     info.Picture,
		AuthProvider: provider,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("Created %s profile %s via %s", user.Role, user.ID, provider)
	return &AuthResult{User: user, Token: token, Created: true}, nil
}

func (uc *AuthUseCase) RefreshToken(ctx context.Context, refreshToken string) (*firebase.TokenPair, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, errors.Validation("Refresh token is required")
	}
	return uc.firebaseAuth.Refresh(ctx, refreshToken)
}

// Authenticate resolves a bearer token to the caller's profile.
func (uc *AuthUseCase) Authenticate(ctx context.Context, idToken string) (*entity.User, error) {
	info, err := uc.firebaseAuth.VerifyToken(ctx, idToken)
	if err != nil {
		return nil, err
	}
	user, err := uc.userRepo.GetByID(ctx, info.UID)
	if err != nil {
		if errors.Is(err, "NOT_FOUND") {
			return nil, errors.Forbidden("Complete registration before using the API", err)
		}
		return nil, err
	}
	return user, nil
}
