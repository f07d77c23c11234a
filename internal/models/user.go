package models

import (
	"strings"
	"time"
)

// CompanyDetails is the business information both roles carry.
type CompanyDetails struct {
	CompanyName             string
	ChamberOfCommerceNumber string
	VATNumber               string
	Phone                   string
	BankAccountNumber       string
}

// Profile is the role-specific half of a user. It is implemented only by
// SellerProfile and BuyerProfile.
type Profile interface {
	Role() Role
	Company() CompanyDetails
	profile()
}

// SellerProfile is a selling party, located at its company address.
type SellerProfile struct {
	CompanyDetails
	CompanyAddress string
}

// BuyerProfile is a purchasing party, delivered to at its delivery address.
type BuyerProfile struct {
	CompanyDetails
	DeliveryAddress string
}

func (SellerProfile) Role() Role                { return RoleSeller }
func (p SellerProfile) Company() CompanyDetails { return p.CompanyDetails }
func (SellerProfile) profile()                  {}

func (BuyerProfile) Role() Role                { return RoleBuyer }
func (p BuyerProfile) Company() CompanyDetails { return p.CompanyDetails }
func (BuyerProfile) profile()                  {}

// NewProfile builds the profile for role, placing address in the slot that
// role uses.
func NewProfile(role Role, company CompanyDetails, address string) (Profile, error) {
	switch role {
	case RoleSeller:
		return SellerProfile{CompanyDetails: company, CompanyAddress: address}, nil
	case RoleBuyer:
		return BuyerProfile{CompanyDetails: company, DeliveryAddress: address}, nil
	default:
		return nil, ErrInvalidRole
	}
}

// LifecycleState is the observable state of an account.
type LifecycleState string

const (
	StateRegistered LifecycleState = "Registered"
	StateActive     LifecycleState = "Active"
)

// User captures a stored identity together with its role profile. Profile is
// nil only for rows whose discriminator could not be resolved.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	RegisteredAt time.Time
	LastLoginAt  *time.Time
	Profile      Profile
}

// Username is the local part of the email, or the whole email when it has no '@'.
func (u User) Username() string {
	return UsernameFromEmail(u.Email)
}

// UsernameFromEmail derives a username from an email address.
func UsernameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}

// Role reports the user's role, RoleUnknown when no profile is attached.
func (u User) Role() Role {
	if u.Profile == nil {
		return RoleUnknown
	}
	return u.Profile.Role()
}

// IsSeller reports whether u may own products.
func (u User) IsSeller() bool {
	_, ok := u.Profile.(SellerProfile)
	return ok
}

// State reports Registered until the first successful login.
func (u User) State() LifecycleState {
	if u.LastLoginAt == nil {
		return StateRegistered
	}
	return StateActive
}
