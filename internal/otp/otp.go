// Package otp implements one-time-code issuance and verification bound to a
// user identity. A code moves through issued -> verified, or lapses once its
// expiry passes; both end states are terminal. Only the most recently issued
// record for a user is ever consulted.
package otp

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/quickbite/backend/internal/database"
	"github.com/quickbite/backend/internal/models"
	"go.uber.org/zap"
)

const CodeTTL = 5 * time.Minute

// Record is one issued code. ID is assigned by the store in issuance order,
// which makes it the monotonic sequence "latest" is defined by. Ordering by
// expires_at instead would misorder records issued in the same instant under
// clock skew, so the id wins here.
type Record struct {
	ID        int64
	UserID    int64
	Code      string
	ExpiresAt time.Time
	Verified  bool
	Consumed  bool
	CreatedAt time.Time
}

// Store persists OTP records. MarkVerified must be atomic: it flips the
// verified flag only while it is still false and reports
// database.ErrOTPAlreadyUsed otherwise, so two racing verify calls cannot
// both succeed.
type Store interface {
	Create(ctx context.Context, userID int64, code string, expiresAt time.Time) (*Record, error)
	Latest(ctx context.Context, userID int64) (*Record, error)
	MarkVerified(ctx context.Context, id int64) error
}

// UserResolver maps an email or mobile number to a user.
// Returns database.ErrUserNotFound when nothing matches.
type UserResolver interface {
	GetByEmailOrMobile(ctx context.Context, emailOrMobile string) (*models.User, error)
}

// TokenIssuer mints a session token for a verified user.
type TokenIssuer interface {
	Issue(user *models.User) (string, error)
}

// Sender delivers a code to its destination, best effort.
type Sender interface {
	SendCode(ctx context.Context, destination, code string) error
}

// RoleClass is the caller class an endpoint serves. Customer endpoints
// reject admin accounts and admin endpoints reject customer accounts.
type RoleClass int

const (
	CustomerRole RoleClass = iota
	AdminRole
)

type Service struct {
	store  Store
	users  UserResolver
	tokens TokenIssuer
	sender Sender
	logger *zap.Logger
	ttl    time.Duration

	now     func() time.Time
	randInt func(n int) int
}

func NewService(store Store, users UserResolver, tokens TokenIssuer, sender Sender, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = CodeTTL
	}
	return &Service{
		store:   store,
		users:   users,
		tokens:  tokens,
		sender:  sender,
		logger:  logger,
		ttl:     ttl,
		now:     time.Now,
		randInt: rand.Intn,
	}
}

// IssueResult reports issuance separately from delivery: a stored code with
// a failed send is still issued, but the caller can tell the difference.
type IssueResult struct {
	Record    *Record
	Delivered bool
}

// Issue generates a fresh 6-digit code for the identity, stores it with a
// 5-minute expiry, and hands it to the delivery channel. Delivery failure is
// logged and reflected in the result, never conflated with storage failure.
func (s *Service) Issue(ctx context.Context, emailOrMobile string, role RoleClass) (*IssueResult, error) {
	user, err := s.resolve(ctx, emailOrMobile, role)
	if err != nil {
		return nil, err
	}

	code := s.generateCode()
	rec, err := s.store.Create(ctx, user.ID, code, s.now().Add(s.ttl))
	if err != nil {
		return nil, fmt.Errorf("store otp: %w", err)
	}

	delivered := true
	if err := s.sender.SendCode(ctx, emailOrMobile, code); err != nil {
		delivered = false
		s.logger.Warn("otp delivery failed",
			zap.Int64("user_id", user.ID),
			zap.Error(err))
	}

	return &IssueResult{Record: rec, Delivered: delivered}, nil
}

// Verify checks submittedCode against the identity's latest issued record
// and, on success, permanently marks it verified and returns a session
// token. Checks run in a fixed order: record presence, prior use, expiry,
// then exact string match. The verified flip is a conditional update, so the
// second of two near-simultaneous correct submissions fails with
// database.ErrOTPAlreadyUsed.
func (s *Service) Verify(ctx context.Context, emailOrMobile, submittedCode string, role RoleClass) (string, *models.User, error) {
	user, err := s.resolve(ctx, emailOrMobile, role)
	if err != nil {
		return "", nil, err
	}

	rec, err := s.store.Latest(ctx, user.ID)
	if err != nil {
		return "", nil, err
	}

	if rec.Verified {
		return "", nil, database.ErrOTPAlreadyUsed
	}
	if s.now().After(rec.ExpiresAt) {
		return "", nil, database.ErrOTPExpired
	}
	if rec.Code != submittedCode {
		return "", nil, database.ErrOTPInvalidCode
	}

	if err := s.store.MarkVerified(ctx, rec.ID); err != nil {
		return "", nil, err
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *Service) resolve(ctx context.Context, emailOrMobile string, role RoleClass) (*models.User, error) {
	user, err := s.users.GetByEmailOrMobile(ctx, emailOrMobile)
	if err != nil {
		return nil, err
	}
	if (role == AdminRole) != user.IsAdmin {
		return nil, database.ErrForbidden
	}
	return user, nil
}

// generateCode draws uniformly from [100000, 999999].
func (s *Service) generateCode() string {
	return fmt.Sprintf("%d", 100000+s.randInt(900000))
}
