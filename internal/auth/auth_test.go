package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/otp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	user := &models.User{ID: 42, Email: "alice@example.com", Mobile: "9000000001", IsAdmin: true}
	token, err := tm.Issue(user)
	require.NoError(t, err)

	claims, err := tm.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.True(t, claims.IsAdmin)
}

func TestTokenExpiry(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)
	issued := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	tm.now = func() time.Time { return issued }

	token, err := tm.Issue(&models.User{ID: 1})
	require.NoError(t, err)

	tm.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = tm.Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestTokenWrongSecret(t *testing.T) {
	token, err := NewTokenManager("secret-a", time.Hour).Issue(&models.User{ID: 1})
	require.NoError(t, err)

	_, err = NewTokenManager("secret-b", time.Hour).Verify(token)
	assert.True(t, errors.Is(err, ErrInvalidToken))
}

func TestPasswordHashAndCompare(t *testing.T) {
	h := NewPasswordHasher(4) // min cost keeps the test fast

	hash, err := h.Hash("s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, h.Compare(hash, "s3cret"))
	assert.False(t, h.Compare(hash, "wrong"))
}

type userStoreStub struct {
	users    map[string]*models.User
	updated  map[int64]string
	resetOTP map[int64]string
	resetErr error
	conflict bool
}

func newUserStoreStub() *userStoreStub {
	return &userStoreStub{
		users:    map[string]*models.User{},
		updated:  map[int64]string{},
		resetOTP: map[int64]string{},
	}
}

func (s *userStoreStub) Create(_ context.Context, name, email, mobile, passwordHash string, isAdmin bool) (*models.User, error) {
	if s.conflict {
		return nil, database.ErrConflict
	}
	u := &models.User{ID: int64(len(s.users) + 1), Name: name, Email: email, Mobile: mobile, PasswordHash: passwordHash, IsAdmin: isAdmin}
	s.users[email] = u
	s.users[mobile] = u
	return u, nil
}

func (s *userStoreStub) GetByEmailOrMobile(_ context.Context, emailOrMobile string) (*models.User, error) {
	u, ok := s.users[emailOrMobile]
	if !ok {
		return nil, database.ErrUserNotFound
	}
	return u, nil
}

func (s *userStoreStub) UpdatePassword(_ context.Context, userID int64, passwordHash string) error {
	s.updated[userID] = passwordHash
	return nil
}

func (s *userStoreStub) ResetPasswordWithOTP(_ context.Context, userID int64, passwordHash string) error {
	if s.resetErr != nil {
		return s.resetErr
	}
	s.resetOTP[userID] = passwordHash
	return nil
}

type verifierStub struct {
	ident *GoogleIdentity
	err   error
}

func (v verifierStub) Verify(context.Context, string) (*GoogleIdentity, error) {
	return v.ident, v.err
}

func newAuthService(store *userStoreStub, google IDTokenVerifier, hardened bool) *Service {
	return NewService(store, NewPasswordHasher(4), NewTokenManager("test-secret", time.Hour), google, hardened, zap.NewNop())
}

func TestSignupAndLogin(t *testing.T) {
	store := newUserStoreStub()
	svc := newAuthService(store, nil, false)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Alice", "alice@example.com", "9000000001", "s3cret")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", user.PasswordHash)

	token, got, err := svc.Login(ctx, "alice@example.com", "s3cret", otp.CustomerRole)
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, got.ID)

	// Mobile works as the identity too.
	_, _, err = svc.Login(ctx, "9000000001", "s3cret", otp.CustomerRole)
	assert.NoError(t, err)
}

func TestLoginFailures(t *testing.T) {
	store := newUserStoreStub()
	svc := newAuthService(store, nil, false)
	ctx := context.Background()

	_, err := svc.Signup(ctx, "Alice", "alice@example.com", "9000000001", "s3cret")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "nobody@example.com", "s3cret", otp.CustomerRole)
	assert.True(t, errors.Is(err, database.ErrUserNotFound))

	_, _, err = svc.Login(ctx, "alice@example.com", "wrong", otp.CustomerRole)
	assert.True(t, errors.Is(err, database.ErrInvalidCredentials))

	_, _, err = svc.Login(ctx, "alice@example.com", "s3cret", otp.AdminRole)
	assert.True(t, errors.Is(err, database.ErrForbidden))
}

func TestSignupConflict(t *testing.T) {
	store := newUserStoreStub()
	store.conflict = true
	svc := newAuthService(store, nil, false)

	_, err := svc.Signup(context.Background(), "Alice", "alice@example.com", "9000000001", "s3cret")
	assert.True(t, errors.Is(err, database.ErrConflict))
}

func TestResetPasswordDefaultContract(t *testing.T) {
	store := newUserStoreStub()
	store.resetErr = errors.New("no otp")
	svc := newAuthService(store, nil, false)
	ctx := context.Background()

	user, err := svc.Signup(ctx, "Alice", "alice@example.com", "9000000001", "s3cret")
	require.NoError(t, err)

	// Default mode never consults the OTP records.
	require.NoError(t, svc.ResetPassword(ctx, "alice@example.com", "n3w-pass"))
	assert.Contains(t, store.updated, user.ID)
	assert.Empty(t, store.resetOTP)

	err = svc.ResetPassword(ctx, "nobody@example.com", "n3w-pass")
	assert.True(t, errors.Is(err, database.ErrUserNotFound))
}

func TestResetPasswordHardenedMode(t *testing.T) {
	store := newUserStoreStub()
	ctx := context.Background()

	svc := newAuthService(store, nil, true)
	user, err := svc.Signup(ctx, "Alice", "alice@example.com", "9000000001", "s3cret")
	require.NoError(t, err)

	store.resetErr = database.ErrForbidden
	err = svc.ResetPassword(ctx, "alice@example.com", "n3w-pass")
	assert.True(t, errors.Is(err, database.ErrForbidden))
	assert.NotContains(t, store.updated, user.ID)
	assert.Empty(t, store.resetOTP)

	store.resetErr = nil
	require.NoError(t, svc.ResetPassword(ctx, "alice@example.com", "n3w-pass"))
	assert.Contains(t, store.resetOTP, user.ID)
	// The hardened path goes through the atomic reset, not the plain update.
	assert.NotContains(t, store.updated, user.ID)
}

func TestGoogleSignInCreatesUserOnFirstUse(t *testing.T) {
	store := newUserStoreStub()
	svc := newAuthService(store, verifierStub{ident: &GoogleIdentity{Email: "g@example.com", Name: "G User"}}, false)
	ctx := context.Background()

	token, user, err := svc.GoogleSignIn(ctx, "id-token")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, "g@example.com", user.Email)
	assert.Empty(t, user.Mobile)

	// Second sign-in resolves the same account instead of creating another.
	_, again, err := svc.GoogleSignIn(ctx, "id-token")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)
}

func TestGoogleSignInInvalidToken(t *testing.T) {
	store := newUserStoreStub()
	svc := newAuthService(store, verifierStub{err: ErrInvalidToken}, false)

	_, _, err := svc.GoogleSignIn(context.Background(), "garbage")
	assert.True(t, errors.Is(err, ErrInvalidToken))
	assert.Empty(t, store.users)
}

func TestGoogleSignInRejectsAdminAccounts(t *testing.T) {
	store := newUserStoreStub()
	store.users["root@example.com"] = &models.User{ID: 9, Email: "root@example.com", IsAdmin: true}
	svc := newAuthService(store, verifierStub{ident: &GoogleIdentity{Email: "root@example.com", Name: "Root"}}, false)

	_, _, err := svc.GoogleSignIn(context.Background(), "id-token")
	assert.True(t, errors.Is(err, database.ErrForbidden))
}

func TestGoogleSignInNotConfigured(t *testing.T) {
	svc := newAuthService(newUserStoreStub(), nil, false)

	_, _, err := svc.GoogleSignIn(context.Background(), "id-token")
	assert.True(t, errors.Is(err, database.ErrValidation))
}
