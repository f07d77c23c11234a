package dto

import (
	"time"

	"github.com/veiling/veiling-be/internal/models"
)

// RegisterRequest is the create-user payload. Address is the company address
// for sellers and the delivery address for buyers.
type RegisterRequest struct {
	Email                   string `json:"email" validate:"required,email,max=255"`
	Password                string `json:"password" validate:"required,min=8"`
	Role                    string `json:"role" validate:"required"`
	CompanyName             string `json:"companyName" validate:"required,max=200"`
	ChamberOfCommerceNumber string `json:"chamberOfCommerceNumber" validate:"required,len=8"`
	VATNumber               string `json:"vatNumber" validate:"required,max=20"`
	Phone                   string `json:"phone" validate:"required,max=20"`
	BankAccountNumber       string `json:"bankAccountNumber" validate:"required,max=34"`
	Address                 string `json:"address" validate:"required,max=500"`
}

// Company extracts the shared business fields.
func (r RegisterRequest) Company() models.CompanyDetails {
	return models.CompanyDetails{
		CompanyName:             r.CompanyName,
		ChamberOfCommerceNumber: r.ChamberOfCommerceNumber,
		VATNumber:               r.VATNumber,
		Phone:                   r.Phone,
		BankAccountNumber:       r.BankAccountNumber,
	}
}

// UpdateUserRequest replaces a user's mutable fields. An empty password keeps
// the current one. Only the address slot matching the stored role is used.
type UpdateUserRequest struct {
	ID                      int64   `json:"id" validate:"required,gt=0"`
	Email                   string  `json:"email" validate:"required,email,max=255"`
	Password                string  `json:"password" validate:"omitempty,min=8"`
	CompanyName             string  `json:"companyName" validate:"required,max=200"`
	ChamberOfCommerceNumber string  `json:"chamberOfCommerceNumber" validate:"required,len=8"`
	VATNumber               string  `json:"vatNumber" validate:"required,max=20"`
	Phone                   string  `json:"phone" validate:"required,max=20"`
	BankAccountNumber       string  `json:"bankAccountNumber" validate:"required,max=34"`
	CompanyAddress          *string `json:"companyAddress,omitempty" validate:"omitempty,max=500"`
	DeliveryAddress         *string `json:"deliveryAddress,omitempty" validate:"omitempty,max=500"`
}

// Company extracts the shared business fields.
func (r UpdateUserRequest) Company() models.CompanyDetails {
	return models.CompanyDetails{
		CompanyName:             r.CompanyName,
		ChamberOfCommerceNumber: r.ChamberOfCommerceNumber,
		VATNumber:               r.VATNumber,
		Phone:                   r.Phone,
		BankAccountNumber:       r.BankAccountNumber,
	}
}

// UserResponse is the outbound user representation. The password hash is
// never part of it.
type UserResponse struct {
	ID                      int64       `json:"id"`
	Email                   string      `json:"email"`
	Username                string      `json:"username"`
	Role                    models.Role `json:"role"`
	RegisteredAt            time.Time   `json:"registeredAt"`
	LastLoginAt             *time.Time  `json:"lastLoginAt"`
	CompanyName             string      `json:"companyName,omitempty"`
	ChamberOfCommerceNumber string      `json:"chamberOfCommerceNumber,omitempty"`
	VATNumber               string      `json:"vatNumber,omitempty"`
	Phone                   string      `json:"phone,omitempty"`
	BankAccountNumber       string      `json:"bankAccountNumber,omitempty"`
	CompanyAddress          *string     `json:"companyAddress,omitempty"`
	DeliveryAddress         *string     `json:"deliveryAddress,omitempty"`
}

// NewUserResponse maps a stored user onto the outbound shape.
func NewUserResponse(u models.User) UserResponse {
	out := UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username(),
		Role:         models.RoleUnknown,
		RegisteredAt: u.RegisteredAt,
		LastLoginAt:  u.LastLoginAt,
	}

	switch p := u.Profile.(type) {
	case models.SellerProfile:
		out.Role = models.RoleSeller
		out.setCompany(p.CompanyDetails)
		out.CompanyAddress = &p.CompanyAddress
	case models.BuyerProfile:
		out.Role = models.RoleBuyer
		out.setCompany(p.CompanyDetails)
		out.DeliveryAddress = &p.DeliveryAddress
	}
	return out
}

// NewUserResponses maps a slice of users.
func NewUserResponses(users []models.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, NewUserResponse(u))
	}
	return out
}

func (r *UserResponse) setCompany(c models.CompanyDetails) {
	r.CompanyName = c.CompanyName
	r.ChamberOfCommerceNumber = c.ChamberOfCommerceNumber
	r.VATNumber = c.VATNumber
	r.Phone = c.Phone
	r.BankAccountNumber = c.BankAccountNumber
}
