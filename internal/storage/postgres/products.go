package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/veiling/veiling-be/internal/models"
	"github.com/veiling/veiling-be/internal/storage"
)

var _ storage.ProductStore = (*ProductStore)(nil)

const productColumns = `id, seller_id, name, description, price, stock, created_at`

// ProductStore provides Postgres-backed persistence for product listings.
type ProductStore struct {
	db DB
}

// NewProductStore creates a ProductStore on db.
func NewProductStore(db DB) *ProductStore {
	return &ProductStore{db: db}
}

// Insert stores a product. An unknown seller id or a negative price/stock
// surfaces as storage.ErrConstraintViolation.
func (s *ProductStore) Insert(ctx context.Context, product models.Product) (models.Product, error) {
	query := `
		INSERT INTO products (seller_id, name, description, price, stock, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + productColumns
	row := s.db.QueryRow(ctx, query,
		product.SellerID,
		product.Name,
		product.Description,
		product.Price,
		product.Stock,
		product.CreatedAt,
	)
	created, err := scanProduct(row)
	if err != nil {
		return models.Product{}, fmt.Errorf("insert product: %w", mapWriteError(err))
	}
	return created, nil
}

// ListBySeller returns a seller's products, newest first.
func (s *ProductStore) ListBySeller(ctx context.Context, sellerID int64) ([]models.Product, error) {
	rows, err := s.db.Query(ctx,
		`SELECT `+productColumns+` FROM products WHERE seller_id = $1 ORDER BY created_at DESC, id DESC`,
		sellerID)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	products := make([]models.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}
	return products, nil
}

func scanProduct(row pgx.Row) (models.Product, error) {
	var p models.Product
	err := row.Scan(&p.ID, &p.SellerID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt)
	return p, err
}
