package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bhangari/internal/domain/entity"
	"bhangari/internal/infrastructure/firebase"
	"bhangari/pkg/errors"
)

func TestAuthUseCase_Register(t *testing.T) {
	users := newFakeUserRepo()
	auth := newFakeAuth()
	uc := NewAuthUseCase(users, auth)
	ctx := context.Background()

	res, err := uc.Register(ctx, RegisterInput{
		Email:    " Karim@Example.com ",
		Password: "secret1",
		Name:     "Karim",
		Phone:    "01712345678",
		Role:     entity.RoleCollector,
	})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "karim@example.com", res.User.Email)
	assert.Equal(t, "password", res.User.AuthProvider)
	assert.Equal(t, "uid-karim@example.com", res.User.ID)
	require.NotNil(t, res.Token)
	assert.Equal(t, "refresh-karim@example.com", res.Token.RefreshToken)

	_, err = uc.Register(ctx, RegisterInput{Email: "karim@example.com", Password: "secret1", Name: "K", Phone: "01712345678", Role: entity.RoleCollector})
	assertCode(t, err, "EMAIL_ALREADY_IN_USE")

	_, err = uc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "123", Name: "A", Phone: "01712345678", Role: entity.RoleHousehold})
	assertCode(t, err, "WEAK_PASSWORD")

	_, err = uc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret1", Name: "A", Phone: "01712345678", Role: "admin"})
	assertCode(t, err, "VALIDATION_ERROR")

	_, err = uc.Register(ctx, RegisterInput{Email: "a@example.com", Password: "secret1", Name: "A", Phone: "999", Role: entity.RoleHousehold})
	assertCode(t, err, "VALIDATION_ERROR")
}

func TestAuthUseCase_RegisterRejectsExistingProfileEmail(t *testing.T) {
	existing := household("g1")
	existing.Email = "rahima@example.com"
	existing.AuthProvider = "google"
	auth := newFakeAuth()
	uc := NewAuthUseCase(newFakeUserRepo(existing), auth)

	_, err := uc.Register(context.Background(), RegisterInput{Email: "Rahima@example.com", Password: "secret1", Name: "Rahima", Phone: "01712345678", Role: entity.RoleHousehold})
	assertCode(t, err, "EMAIL_ALREADY_IN_USE")
	assert.Empty(t, auth.accounts)
}

func TestAuthUseCase_RegisterRollsBackAuthUser(t *testing.T) {
	users := newFakeUserRepo(household("uid-dup@example.com"))
	auth := newFakeAuth()
	uc := NewAuthUseCase(users, auth)

	_, err := uc.Register(context.Background(), RegisterInput{Email: "dup@example.com", Password: "secret1", Name: "Dup", Phone: "01712345678", Role: entity.RoleHousehold})
	assertCode(t, err, "CONFLICT")
	assert.Equal(t, []string{"uid-dup@example.com"}, auth.deleted)
}

func TestAuthUseCase_Login(t *testing.T) {
	users := newFakeUserRepo()
	auth := newFakeAuth()
	uc := NewAuthUseCase(users, auth)
	ctx := context.Background()

	_, err := uc.Register(ctx, RegisterInput{Email: "h@example.com", Password: "secret1", Name: "H", Phone: "01712345678", Role: entity.RoleHousehold})
	require.NoError(t, err)

	res, err := uc.Login(ctx, "H@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleHousehold, res.User.Role)
	assert.False(t, res.Created)

	_, err = uc.Login(ctx, "h@example.com", "wrong")
	assertCode(t, err, "INVALID_CREDENTIALS")

	// account without a profile
	auth.accounts["ghost@example.com"] = "secret1"
	auth.uids["ghost@example.com"] = "ghost"
	_, err = uc.Login(ctx, "ghost@example.com", "secret1")
	assertCode(t, err, "UNAUTHORIZED")
}

func TestAuthUseCase_OAuthSignIn(t *testing.T) {
	users := newFakeUserRepo()
	auth := newFakeAuth()
	auth.tokens["google-token"] = &firebase.TokenInfo{UID: "g1", Email: "Rina@Gmail.com", Picture: "https://img/p.png", Provider: "google.com"}
	uc := NewAuthUseCase(users, auth)
	ctx := context.Background()

	_, err := uc.OAuthSignIn(ctx, OAuthInput{IDToken: "google-token"})
	assertCode(t, err, "VALIDATION_ERROR")

	res, err := uc.OAuthSignIn(ctx, OAuthInput{IDToken: "google-token", Role: entity.RoleHousehold})
	require.NoError(t, err)
	assert.True(t, res.Created)
	assert.Equal(t, "Rina", res.User.Name)
	assert.Equal(t, "rina@gmail.com", res.User.Email)
	assert.Equal(t, "google.com", res.User.AuthProvider)

	// second sign-in finds the profile and ignores the role
	res, err = uc.OAuthSignIn(ctx, OAuthInput{IDToken: "google-token", Role: entity.RoleCollector})
	require.NoError(t, err)
	assert.False(t, res.Created)
	assert.Equal(t, entity.RoleHousehold, res.User.Role)

	_, err = uc.OAuthSignIn(ctx, OAuthInput{IDToken: "forged"})
	assertCode(t, err, "UNAUTHORIZED")
}

func TestAuthUseCase_Authenticate(t *testing.T) {
	users := newFakeUserRepo(collector("c1"))
	auth := newFakeAuth()
	auth.tokens["t-c1"] = &firebase.TokenInfo{UID: "c1"}
	auth.tokens["t-new"] = &firebase.TokenInfo{UID: "new"}
	uc := NewAuthUseCase(users, auth)
	ctx := context.Background()

	user, err := uc.Authenticate(ctx, "t-c1")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleCollector, user.Role)

	_, err = uc.Authenticate(ctx, "t-new")
	assertCode(t, err, "FORBIDDEN")

	_, err = uc.Authenticate(ctx, "bad")
	assertCode(t, err, "UNAUTHORIZED")

	_, err = uc.RefreshToken(ctx, " ")
	assertCode(t, err, "VALIDATION_ERROR")
	pair, err := uc.RefreshToken(ctx, "r")
	require.NoError(t, err)
	assert.Equal(t, "renewed", pair.IDToken)
}

func TestUserUseCase_UpdateProfile(t *testing.T) {
	users := newFakeUserRepo(household("h1"))
	uc := NewUserUseCase(users)
	ctx := context.Background()

	name := "  Nasrin  "
	phone := "০১৯১২৩৪৫৬৭৮"
	updated, err := uc.UpdateProfile(ctx, "h1", UpdateProfileInput{Name: &name, Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, "Nasrin", updated.Name)
	assert.Equal(t, "01912345678", updated.Phone)
	assert.Equal(t, "h1@example.com", updated.Email)

	empty := " "
	_, err = uc.UpdateProfile(ctx, "h1", UpdateProfileInput{Name: &empty})
	assertCode(t, err, "VALIDATION_ERROR")

	bad := "123"
	_, err = uc.UpdateProfile(ctx, "h1", UpdateProfileInput{Phone: &bad})
	assertCode(t, err, "VALIDATION_ERROR")

	profile, err := uc.GetPublicProfile(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, "Nasrin", profile.Name)

	_, err = uc.GetProfile(ctx, "nobody")
	assertCode(t, err, "NOT_FOUND")
}

func TestSettingsUseCase(t *testing.T) {
	repo := newFakeSettingsRepo()
	uc := NewSettingsUseCase(repo)
	ctx := context.Background()

	s, err := uc.Get(ctx, "h1")
	require.NoError(t, err)
	assert.Equal(t, entity.DefaultSettings("h1"), s)

	off := false
	en := "en"
	s, err = uc.Update(ctx, "h1", UpdateSettingsInput{NotificationsEnabled: &off, Language: &en})
	require.NoError(t, err)
	assert.False(t, s.NotificationsEnabled)
	assert.True(t, s.SoundEnabled)
	assert.Equal(t, "en", s.Language)

	stored, err := repo.Get(ctx, "h1")
	require.NoError(t, err)
	assert.False(t, stored.NotificationsEnabled)

	fr := "fr"
	_, err = uc.Update(ctx, "h1", UpdateSettingsInput{Language: &fr})
	assertCode(t, err, "VALIDATION_ERROR")
}

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestUploadUseCase(t *testing.T) {
	files := newFakeFileRepo()
	store := newFakeStore()
	uc := NewUploadUseCase(files, store, fakeProcessor{})
	ctx := context.Background()

	meta, err := uc.UploadPickupImage(ctx, "h1", "bottles.png", pngHeader)
	require.NoError(t, err)
	assert.Equal(t, "public/pickups/h1/"+meta.ID+".jpg", meta.ObjectName)
	assert.Equal(t, "https://storage.test/"+meta.ObjectName, meta.URL)
	assert.Contains(t, meta.ThumbnailURL, "_thumb.jpg")
	assert.Equal(t, "image/jpeg", meta.FileType)
	assert.Len(t, store.objects, 2)

	_, err = uc.UploadPickupImage(ctx, "h1", "notes.txt", []byte("plain text"))
	assertCode(t, err, "VALIDATION_ERROR")
	_, err = uc.UploadPickupImage(ctx, "h1", "empty.png", nil)
	assertCode(t, err, "VALIDATION_ERROR")

	err = uc.DeletePickupImage(ctx, "h2", meta.ID)
	assertCode(t, err, "FORBIDDEN")

	require.NoError(t, uc.DeletePickupImage(ctx, "h1", meta.ID))
	assert.Empty(t, store.objects)
	_, err = files.GetByID(ctx, meta.ID)
	assertCode(t, err, "NOT_FOUND")
}

func TestUploadUseCase_ThumbnailFailureCleansUp(t *testing.T) {
	store := newFakeStore()
	uc := NewUploadUseCase(newFakeFileRepo(), store, fakeProcessor{})

	uc.store = &thumbFailStore{fakeStore: store}

	_, err := uc.UploadPickupImage(context.Background(), "h1", "a.png", pngHeader)
	assertCode(t, err, "INTERNAL_ERROR")
	assert.Empty(t, store.objects)
}

type thumbFailStore struct {
	*fakeStore
}

func (s *thumbFailStore) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	if strings.HasSuffix(name, "_thumb.jpg") {
		return "", errors.Internal("boom", nil)
	}
	return s.fakeStore.Upload(ctx, name, contentType, data)
}

func TestPriceUseCase(t *testing.T) {
	uc, err := NewPriceUseCase()
	require.NoError(t, err)

	assert.Len(t, uc.ListCategories(), 6)
	assert.Len(t, uc.Materials(), 6)

	metal, err := uc.ListItems("metal")
	require.NoError(t, err)
	assert.Len(t, metal, 6)
	for _, item := range metal {
		assert.Equal(t, "metal", item.Category)
	}

	all, err := uc.ListItems("all")
	require.NoError(t, err)
	assert.Len(t, all, 28)

	_, err = uc.ListItems("wood")
	assertCode(t, err, "NOT_FOUND")

	m, ok := uc.FindMaterial("ধাতু")
	assert.True(t, ok)
	assert.Equal(t, "৳৪০-৬০", m.Price)

	_, err = NewPriceUseCaseFromYAML([]byte("categories: [{id: a}]\nitems: [{category: b, name: x}]\n"))
	assert.Error(t, err)
}
