package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
	"github.com/quickbite/backend/internal/otp"
	"go.uber.org/zap"
)

// UserStore is the persistence surface the auth flows need. Create maps a
// duplicate email or mobile onto database.ErrConflict. ResetPasswordWithOTP
// consumes the user's latest verified, unexpired OTP and writes the new
// hash atomically, returning database.ErrForbidden when no such OTP exists.
type UserStore interface {
	Create(ctx context.Context, name, email, mobile, passwordHash string, isAdmin bool) (*models.User, error)
	GetByEmailOrMobile(ctx context.Context, emailOrMobile string) (*models.User, error)
	UpdatePassword(ctx context.Context, userID int64, passwordHash string) error
	ResetPasswordWithOTP(ctx context.Context, userID int64, passwordHash string) error
}

type Service struct {
	users  UserStore
	hasher *PasswordHasher
	tokens *TokenManager
	google IDTokenVerifier
	logger *zap.Logger

	resetRequiresOTP bool
}

func NewService(users UserStore, hasher *PasswordHasher, tokens *TokenManager, google IDTokenVerifier, resetRequiresOTP bool, logger *zap.Logger) *Service {
	return &Service{
		users:            users,
		hasher:           hasher,
		tokens:           tokens,
		google:           google,
		logger:           logger,
		resetRequiresOTP: resetRequiresOTP,
	}
}

// HashPassword exposes the configured hasher for profile updates.
func (s *Service) HashPassword(password string) (string, error) {
	return s.hasher.Hash(password)
}

func (s *Service) Signup(ctx context.Context, name, email, mobile, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}
	return s.users.Create(ctx, name, email, mobile, hash, false)
}

// Login authenticates the identity for the given caller class and returns a
// session token. An admin account on the customer endpoint (and vice versa)
// is Forbidden before the password is even checked.
func (s *Service) Login(ctx context.Context, emailOrMobile, password string, role otp.RoleClass) (string, *models.User, error) {
	user, err := s.users.GetByEmailOrMobile(ctx, emailOrMobile)
	if err != nil {
		return "", nil, err
	}
	if (role == otp.AdminRole) != user.IsAdmin {
		return "", nil, database.ErrForbidden
	}
	if !s.hasher.Compare(user.PasswordHash, password) {
		return "", nil, database.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

// ResetPassword replaces the identity's password hash.
//
// SECURITY: by default this is gated on identity resolution only, so anyone
// who knows a registered email or mobile can rotate its password without
// proving OTP possession. The hardened mode (AUTH_RESET_REQUIRES_OTP)
// additionally consumes a verified, unexpired OTP for the user and must be
// enabled before production use.
func (s *Service) ResetPassword(ctx context.Context, emailOrMobile, newPassword string) error {
	user, err := s.users.GetByEmailOrMobile(ctx, emailOrMobile)
	if err != nil {
		return err
	}

	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}

	if s.resetRequiresOTP {
		if err := s.users.ResetPasswordWithOTP(ctx, user.ID, hash); err != nil {
			if errors.Is(err, database.ErrForbidden) {
				s.logger.Warn("password reset without verified otp",
					zap.Int64("user_id", user.ID))
			}
			return err
		}
		return nil
	}

	return s.users.UpdatePassword(ctx, user.ID, hash)
}

// GoogleSignIn exchanges a verified Google ID token for a session token,
// creating the account on first sign-in. Federated accounts carry no mobile
// number and no usable password hash, so password login stays closed for
// them until a reset sets one.
func (s *Service) GoogleSignIn(ctx context.Context, idToken string) (string, *models.User, error) {
	if s.google == nil {
		return "", nil, fmt.Errorf("google sign-in not configured: %w", database.ErrValidation)
	}

	ident, err := s.google.Verify(ctx, idToken)
	if err != nil {
		return "", nil, err
	}

	user, err := s.users.GetByEmailOrMobile(ctx, ident.Email)
	if errors.Is(err, database.ErrUserNotFound) {
		user, err = s.users.Create(ctx, ident.Name, ident.Email, "", "", false)
	}
	if err != nil {
		return "", nil, err
	}
	if user.IsAdmin {
		return "", nil, database.ErrForbidden
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}
