package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/auth"
	"github.com/veiling/veiling-be/internal/models"
	"github.com/veiling/veiling-be/internal/storage"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// Registration is a role-tagged create-user request. Address lands in the
// company address for sellers and the delivery address for buyers.
type Registration struct {
	Email    string
	Password string
	Role     string
	Company  models.CompanyDetails
	Address  string
}

// Changes replaces a user's mutable fields. An empty Password keeps the
// current hash; a nil address keeps the current address. Only the address
// matching the stored role is applied.
type Changes struct {
	Email           string
	Password        string
	Company         models.CompanyDetails
	CompanyAddress  *string
	DeliveryAddress *string
}

// Identity validates identity requests and delegates persistence to a
// storage.UserStore. It keeps no state of its own between calls.
type Identity struct {
	store  storage.UserStore
	hasher PasswordHasher
	log    *zap.Logger
	now    func() time.Time

	dummyOnce sync.Once
	dummyHash string
}

// NewIdentity creates the identity service.
func NewIdentity(store storage.UserStore, hasher PasswordHasher, log *zap.Logger) *Identity {
	if log == nil {
		log = zap.NewNop()
	}
	return &Identity{
		store:  store,
		hasher: hasher,
		log:    log.With(zap.String("service", "identity")),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns every user.
func (s *Identity) List(ctx context.Context) ([]models.User, error) {
	return s.store.FindAll(ctx)
}

// GetByID returns the user with id, or nil when there is none.
func (s *Identity) GetByID(ctx context.Context, id int64) (*models.User, error) {
	if id <= 0 {
		return nil, fmt.Errorf("%w: user id must be greater than 0", ErrInvalidArgument)
	}
	return s.store.FindByID(ctx, id)
}

// GetByEmail returns the user with email, or nil when there is none.
func (s *Identity) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: email must not be empty", ErrInvalidArgument)
	}
	return s.store.FindByEmail(ctx, email)
}

// ExistsByEmail reports whether email is registered. A blank email is never
// registered.
func (s *Identity) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, nil
	}
	u, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u != nil, nil
}

// Register creates a buyer or seller.
func (s *Identity) Register(ctx context.Context, reg Registration) (models.User, error) {
	if strings.TrimSpace(reg.Email) == "" {
		return models.User{}, fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}
	if strings.TrimSpace(reg.Password) == "" {
		return models.User{}, fmt.Errorf("%w: password is required", ErrInvalidArgument)
	}
	role, err := models.ParseRole(reg.Role)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}
	profile, err := models.NewProfile(role, reg.Company, reg.Address)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %w", ErrInvalidArgument, err)
	}

	exists, err := s.ExistsByEmail(ctx, reg.Email)
	if err != nil {
		return models.User{}, err
	}
	if exists {
		return models.User{}, fmt.Errorf("%w: email %q is already registered", ErrAlreadyExists, reg.Email)
	}

	hash, err := s.hasher.Hash(reg.Password)
	if err != nil {
		return models.User{}, err
	}

	created, err := s.store.Insert(ctx, models.User{
		Email:        reg.Email,
		PasswordHash: hash,
		RegisteredAt: s.now(),
		LastLoginAt:  nil,
		Profile:      profile,
	})
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user registered", zap.Int64("id", created.ID), zap.String("role", string(role)))
	return created, nil
}

// Update applies changes to the user with id. The role and registration time
// of the stored record are kept.
func (s *Identity) Update(ctx context.Context, id int64, changes Changes) (models.User, error) {
	if strings.TrimSpace(changes.Email) == "" {
		return models.User{}, fmt.Errorf("%w: email is required", ErrInvalidArgument)
	}

	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.User{}, err
	}
	if existing == nil {
		return models.User{}, fmt.Errorf("%w: user %d does not exist", ErrNotFound, id)
	}

	if !strings.EqualFold(existing.Email, changes.Email) {
		other, err := s.store.FindByEmail(ctx, changes.Email)
		if err != nil {
			return models.User{}, err
		}
		if other != nil && other.ID != existing.ID {
			return models.User{}, fmt.Errorf("%w: email %q is used by another user", ErrAlreadyExists, changes.Email)
		}
	}

	updated := *existing
	updated.Email = changes.Email
	switch p := existing.Profile.(type) {
	case models.SellerProfile:
		p.CompanyDetails = changes.Company
		if changes.CompanyAddress != nil {
			p.CompanyAddress = *changes.CompanyAddress
		}
		updated.Profile = p
	case models.BuyerProfile:
		p.CompanyDetails = changes.Company
		if changes.DeliveryAddress != nil {
			p.DeliveryAddress = *changes.DeliveryAddress
		}
		updated.Profile = p
	default:
		return models.User{}, fmt.Errorf("%w: user %d has no resolvable role", ErrInvalidArgument, id)
	}

	if changes.Password != "" {
		hash, err := s.hasher.Hash(changes.Password)
		if err != nil {
			return models.User{}, err
		}
		updated.PasswordHash = hash
	}

	saved, err := s.store.Update(ctx, updated)
	if errors.Is(err, storage.ErrNotFound) {
		return models.User{}, fmt.Errorf("%w: user %d does not exist", ErrNotFound, id)
	}
	return saved, err
}

// Remove deletes the user with id, reporting false when there was none.
func (s *Identity) Remove(ctx context.Context, id int64) (bool, error) {
	if id <= 0 {
		return false, fmt.Errorf("%w: user id must be greater than 0", ErrInvalidArgument)
	}
	existing, err := s.store.FindByID(ctx, id)
	if err != nil {
		return false, err
	}
	if existing == nil {
		return false, nil
	}
	return s.store.Delete(ctx, id)
}

// Login verifies credentials and stamps the login time. An unknown email and
// a wrong password fail with the same ErrUnauthenticated.
func (s *Identity) Login(ctx context.Context, email, password string) (models.User, error) {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(password) == "" {
		return models.User{}, fmt.Errorf("%w: email and password are required", ErrInvalidArgument)
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return models.User{}, err
	}
	if user == nil {
		// Burn a comparison so an unknown email costs as much as a wrong password.
		_ = s.hasher.Compare(s.fallbackHash(), password)
		s.log.Debug("login rejected", zap.String("reason", "unknown email"))
		return models.User{}, ErrUnauthenticated
	}
	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			s.log.Debug("login rejected", zap.Int64("id", user.ID), zap.String("reason", "password mismatch"))
			return models.User{}, ErrUnauthenticated
		}
		return models.User{}, err
	}

	now := s.now()
	if user.LastLoginAt != nil && user.LastLoginAt.After(now) {
		now = *user.LastLoginAt
	}
	user.LastLoginAt = &now
	updated, err := s.store.Update(ctx, *user)
	if errors.Is(err, storage.ErrNotFound) {
		s.log.Debug("login rejected", zap.Int64("id", user.ID), zap.String("reason", "removed during login"))
		return models.User{}, ErrUnauthenticated
	}
	if err != nil {
		return models.User{}, err
	}
	s.log.Info("user logged in", zap.Int64("id", updated.ID))
	return updated, nil
}

func (s *Identity) fallbackHash() string {
	s.dummyOnce.Do(func() {
		hash, err := s.hasher.Hash("veiling-placeholder-password")
		if err != nil {
			s.log.Warn("could not prepare placeholder hash", zap.Error(err))
		}
		s.dummyHash = hash
	})
	return s.dummyHash
}
