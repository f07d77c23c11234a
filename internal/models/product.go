package models

import (
	"math"
	"time"
)

// Storage bounds of a listing: price is NUMERIC(18,2), stock is INTEGER.
const (
	MaxProductPrice = 1e16
	MaxProductStock = math.MaxInt32
)

// Product is a listing owned by a seller.
type Product struct {
	ID          int64
	Name        string
	Description *string
	Price       float64
	Stock       int
	CreatedAt   time.Time
	SellerID    int64
}
