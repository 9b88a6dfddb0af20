package entity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleOwner  Role = "owner"
	RoleLeaser Role = "leaser"
)

func IsValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleOwner, RoleLeaser:
		return true
	default:
		return false
	}
}

type Address struct {
	Street string `json:"street,omitempty"`
	LGA    string `json:"lga,omitempty"`
	Area   string `json:"area,omitempty"`
}

// User is a marketplace account. Password holds the bcrypt hash, never the
// plaintext. IsVerified is stored and returned but no operation transitions
// it to true.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Password   string    `json:"-"`
	Role       Role      `json:"role"`
	Phone      string    `json:"phone"`
	Address    *Address  `json:"address,omitempty"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (u *User) Validate() error {
	if u.Name == "" {
		return errors.New("name is required")
	}
	if !strings.Contains(u.Email, "@") {
		return errors.New("a valid email is required")
	}
	if u.Phone == "" {
		return errors.New("phone is required")
	}
	if !IsValidRole(u.Role) {
		return fmt.Errorf("invalid role %q", u.Role)
	}
	if u.Address != nil && u.Address.LGA != "" && !IsValidLGA(u.Address.LGA) {
		return fmt.Errorf("invalid address lga %q", u.Address.LGA)
	}
	return nil
}

// NormalizeEmail lowercases the address so the unique index is effectively
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
