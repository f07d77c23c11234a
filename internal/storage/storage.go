package storage

import (
	"context"
	"errors"

	"github.com/veiling/veiling-be/internal/models"
)

// ErrNotFound indicates a record does not exist.
var ErrNotFound = errors.New("record not found")

// ErrConstraintViolation indicates the database rejected a write on an
// integrity constraint (unique email, foreign key, check).
var ErrConstraintViolation = errors.New("constraint violation")

// UserStore captures persistence operations for identities. Lookups return a
// nil user, not an error, when nothing matches.
type UserStore interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user models.User) (models.User, error)
	Update(ctx context.Context, user models.User) (models.User, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// ProductStore captures persistence operations for product listings.
type ProductStore interface {
	Insert(ctx context.Context, product models.Product) (models.Product, error)
	ListBySeller(ctx context.Context, sellerID int64) ([]models.Product, error)
}
