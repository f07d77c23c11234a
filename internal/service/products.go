package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/veiling/veiling-be/internal/models"
	"github.com/veiling/veiling-be/internal/storage"
)

// SellerLookup resolves a user by email. *Identity implements it.
type SellerLookup interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// NewProduct is a product listing request. SellerEmail names the seller the
// listing belongs to.
type NewProduct struct {
	Name        string
	Description *string
	Price       float64
	Stock       int
	SellerEmail string
}

// Products manages seller-owned product listings.
type Products struct {
	store   storage.ProductStore
	sellers SellerLookup
	log     *zap.Logger
	now     func() time.Time
}

// NewProducts creates the product service.
func NewProducts(store storage.ProductStore, sellers SellerLookup, log *zap.Logger) *Products {
	if log == nil {
		log = zap.NewNop()
	}
	return &Products{
		store:   store,
		sellers: sellers,
		log:     log.With(zap.String("service", "products")),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Create stores a listing for the seller named by p.SellerEmail. Only a
// registered seller may own products.
func (s *Products) Create(ctx context.Context, p NewProduct) (models.Product, error) {
	if strings.TrimSpace(p.Name) == "" {
		return models.Product{}, fmt.Errorf("%w: name is required", ErrInvalidArgument)
	}
	if p.Price < 0 {
		return models.Product{}, fmt.Errorf("%w: price must not be negative", ErrInvalidArgument)
	}
	if p.Price >= models.MaxProductPrice {
		return models.Product{}, fmt.Errorf("%w: price must be less than %g", ErrInvalidArgument, models.MaxProductPrice)
	}
	if p.Stock < 0 {
		return models.Product{}, fmt.Errorf("%w: stock must not be negative", ErrInvalidArgument)
	}
	if p.Stock > models.MaxProductStock {
		return models.Product{}, fmt.Errorf("%w: stock must be at most %d", ErrInvalidArgument, models.MaxProductStock)
	}

	seller, err := s.seller(ctx, p.SellerEmail)
	if err != nil {
		return models.Product{}, err
	}

	created, err := s.store.Insert(ctx, models.Product{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		CreatedAt:   s.now(),
		SellerID:    seller.ID,
	})
	if err != nil {
		return models.Product{}, err
	}
	s.log.Info("product created", zap.Int64("id", created.ID), zap.Int64("sellerId", seller.ID))
	return created, nil
}

// ListBySeller returns the products of sellerID, newest first.
func (s *Products) ListBySeller(ctx context.Context, sellerID int64) ([]models.Product, error) {
	if sellerID <= 0 {
		return nil, fmt.Errorf("%w: seller id must be greater than 0", ErrInvalidArgument)
	}
	return s.store.ListBySeller(ctx, sellerID)
}

// ListBySellerEmail returns the products of the seller registered under email.
func (s *Products) ListBySellerEmail(ctx context.Context, email string) ([]models.Product, error) {
	seller, err := s.seller(ctx, email)
	if err != nil {
		return nil, err
	}
	return s.store.ListBySeller(ctx, seller.ID)
}

func (s *Products) seller(ctx context.Context, email string) (*models.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, fmt.Errorf("%w: seller email is required", ErrInvalidArgument)
	}
	u, err := s.sellers.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, fmt.Errorf("%w: seller not found: no user registered under %q", ErrInvalidArgument, email)
	}
	if !u.IsSeller() {
		return nil, fmt.Errorf("%w: seller not found: %q is not a seller", ErrInvalidArgument, email)
	}
	return u, nil
}
