package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/models"
	"github.com/veiling/veiling-be/internal/storage"
)

// Ensure UserStore satisfies the storage.UserStore interface at compile time.
var _ storage.UserStore = (*UserStore)(nil)

const userColumns = `id, email, password_hash, registered_at, last_login_at, user_type,
	company_name, chamber_of_commerce_number, vat_number, phone, bank_account_number,
	delivery_address, company_address`

// UserStore keeps buyers and sellers in the single users table, told apart by
// the user_type discriminator.
type UserStore struct {
	db  DB
	log *zap.Logger
}

// NewUserStore creates a UserStore on db.
func NewUserStore(db DB, log *zap.Logger) *UserStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &UserStore{db: db, log: log.With(zap.String("store", "users"))}
}

// FindAll returns every user ordered by id.
func (s *UserStore) FindAll(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := make([]models.User, 0)
	for rows.Next() {
		u, err := s.scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	return users, nil
}

// FindByID fetches a user by id, nil when absent.
func (s *UserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return s.scanOptional(row, "query user by id")
}

// FindByEmail fetches a user by email, ignoring case, nil when absent.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
	return s.scanOptional(row, "query user by email")
}

// Insert stores a new user and returns it with its generated id. A taken
// email surfaces as storage.ErrConstraintViolation.
func (s *UserStore) Insert(ctx context.Context, user models.User) (models.User, error) {
	cols, err := profileColumns(user.Profile)
	if err != nil {
		return models.User{}, err
	}

	query := `
		INSERT INTO users (email, password_hash, registered_at, last_login_at, user_type,
			company_name, chamber_of_commerce_number, vat_number, phone, bank_account_number,
			delivery_address, company_address)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + userColumns
	row := s.db.QueryRow(ctx, query,
		user.Email,
		user.PasswordHash,
		user.RegisteredAt,
		user.LastLoginAt,
		cols.userType,
		cols.company.CompanyName,
		cols.company.ChamberOfCommerceNumber,
		cols.company.VATNumber,
		cols.company.Phone,
		cols.company.BankAccountNumber,
		cols.deliveryAddress,
		cols.companyAddress,
	)
	created, err := s.scanUser(row)
	if err != nil {
		return models.User{}, fmt.Errorf("insert user: %w", mapWriteError(err))
	}
	return created, nil
}

// Update replaces the mutable columns of the user with user.ID. The
// discriminator and registration time are never rewritten.
func (s *UserStore) Update(ctx context.Context, user models.User) (models.User, error) {
	cols, err := profileColumns(user.Profile)
	if err != nil {
		return models.User{}, err
	}

	query := `
		UPDATE users
		SET email = $2, password_hash = $3, last_login_at = $4,
			company_name = $5, chamber_of_commerce_number = $6, vat_number = $7,
			phone = $8, bank_account_number = $9, delivery_address = $10, company_address = $11
		WHERE id = $1
		RETURNING ` + userColumns
	row := s.db.QueryRow(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.LastLoginAt,
		cols.company.CompanyName,
		cols.company.ChamberOfCommerceNumber,
		cols.company.VATNumber,
		cols.company.Phone,
		cols.company.BankAccountNumber,
		cols.deliveryAddress,
		cols.companyAddress,
	)
	updated, err := s.scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, storage.ErrNotFound
		}
		return models.User{}, fmt.Errorf("update user: %w", mapWriteError(err))
	}
	return updated, nil
}

// Delete removes the user with id. It reports false when no row matched.
func (s *UserStore) Delete(ctx context.Context, id int64) (bool, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete user: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (s *UserStore) scanOptional(row pgx.Row, op string) (*models.User, error) {
	u, err := s.scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &u, nil
}

func (s *UserStore) scanUser(row pgx.Row) (models.User, error) {
	var (
		u               models.User
		userType        string
		company         models.CompanyDetails
		deliveryAddress *string
		companyAddress  *string
	)
	if err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.RegisteredAt,
		&u.LastLoginAt,
		&userType,
		&company.CompanyName,
		&company.ChamberOfCommerceNumber,
		&company.VATNumber,
		&company.Phone,
		&company.BankAccountNumber,
		&deliveryAddress,
		&companyAddress,
	); err != nil {
		return models.User{}, err
	}

	role, err := models.ResolveRole(userType)
	if err != nil {
		s.log.Warn("user row has no resolvable role", zap.Int64("id", u.ID), zap.Error(err))
		return u, nil
	}
	switch role {
	case models.RoleSeller:
		u.Profile = models.SellerProfile{CompanyDetails: company, CompanyAddress: deref(companyAddress)}
	case models.RoleBuyer:
		u.Profile = models.BuyerProfile{CompanyDetails: company, DeliveryAddress: deref(deliveryAddress)}
	}
	return u, nil
}

type storedProfile struct {
	userType        string
	company         models.CompanyDetails
	deliveryAddress *string
	companyAddress  *string
}

// profileColumns spreads a profile over the shared columns. Only the address
// column of the profile's role is filled; the other stays NULL.
func profileColumns(p models.Profile) (storedProfile, error) {
	if p == nil {
		return storedProfile{}, fmt.Errorf("store user: %w", models.ErrInvalidRole)
	}
	userType, err := p.Role().Discriminator()
	if err != nil {
		return storedProfile{}, fmt.Errorf("store user: %w", err)
	}
	out := storedProfile{userType: userType, company: p.Company()}
	switch v := p.(type) {
	case models.SellerProfile:
		out.companyAddress = &v.CompanyAddress
	case models.BuyerProfile:
		out.deliveryAddress = &v.DeliveryAddress
	}
	return out, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
