package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserValidate(t *testing.T) {
	valid := User{
		Name:  "Musa Ibrahim",
		Email: "musa@example.com",
		Phone: "+2348012345678",
		Role:  RoleOwner,
	}
	assert.NoError(t, valid.Validate())

	tests := []struct {
		name   string
		mutate func(*User)
	}{
		{"missing name", func(u *User) { u.Name = "" }},
		{"bad email", func(u *User) { u.Email = "not-an-email" }},
		{"missing phone", func(u *User) { u.Phone = "" }},
		{"unknown role", func(u *User) { u.Role = "manager" }},
		{"bad address lga", func(u *User) { u.Address = &Address{LGA: "Kano"} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := valid
			tt.mutate(&u)
			assert.Error(t, u.Validate())
		})
	}
}

func TestUserValidateAddressOptional(t *testing.T) {
	u := User{
		Name:    "Musa Ibrahim",
		Email:   "musa@example.com",
		Phone:   "+2348012345678",
		Role:    RoleLeaser,
		Address: &Address{Street: "12 Market Road"},
	}
	assert.NoError(t, u.Validate())
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "musa@example.com", NormalizeEmail("  Musa@Example.COM "))
}
