package models

import (
	"errors"
	"fmt"
	"strings"
)

// Role identifies which side of the marketplace a user is on.
type Role string

const (
	RoleBuyer  Role = "Buyer"
	RoleSeller Role = "Seller"
	// RoleUnknown is only ever produced when presenting a stored record whose
	// discriminator could not be resolved.
	RoleUnknown Role = "Unknown"
)

// Discriminator values stored in users.user_type.
const (
	DiscriminatorBuyer  = "Koper"
	DiscriminatorSeller = "Verkoper"
)

// ErrUnknownDiscriminator marks a stored row that is neither a Buyer nor a Seller.
var ErrUnknownDiscriminator = errors.New("unknown user type discriminator")

// ErrInvalidRole is returned by ParseRole for anything but Buyer or Seller.
var ErrInvalidRole = errors.New("type must be Buyer or Seller")

// ResolveRole recovers the concrete role from a stored discriminator.
func ResolveRole(discriminator string) (Role, error) {
	switch discriminator {
	case DiscriminatorBuyer:
		return RoleBuyer, nil
	case DiscriminatorSeller:
		return RoleSeller, nil
	default:
		return RoleUnknown, fmt.Errorf("%w: %q", ErrUnknownDiscriminator, discriminator)
	}
}

// Discriminator returns the value persisted for r.
func (r Role) Discriminator() (string, error) {
	switch r {
	case RoleBuyer:
		return DiscriminatorBuyer, nil
	case RoleSeller:
		return DiscriminatorSeller, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, string(r))
	}
}

// ParseRole accepts the English tags and the Dutch discriminators the
// frontend historically sent, case-insensitively.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "buyer", "koper":
		return RoleBuyer, nil
	case "seller", "verkoper":
		return RoleSeller, nil
	default:
		return "", ErrInvalidRole
	}
}
