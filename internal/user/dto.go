// AngelaMos | 2026
// dto.go

package user

import (
	"strings"
)

type ProfileForm struct {
	Address string `schema:"address" validate:"max=500"`
}

// AdminUserForm is the editable subset of an account in the manage pages.
type AdminUserForm struct {
	FirstName  string `schema:"first_name"  validate:"max=30"`
	LastName   string `schema:"last_name"   validate:"max=30"`
	MiddleName string `schema:"middle_name" validate:"max=30"`
	Phone      string `schema:"phone"       validate:"required,phone"`
	Address    string `schema:"address"     validate:"max=500"`
	Email      string `schema:"email"       validate:"omitempty,email,max=254"`
	IsActive   bool   `schema:"is_active"`
}

func (f *AdminUserForm) Normalize() {
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.MiddleName = strings.TrimSpace(f.MiddleName)
	f.Phone = strings.TrimSpace(f.Phone)
	f.Address = strings.TrimSpace(f.Address)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

func AdminUserFormFrom(u *User) AdminUserForm {
	return AdminUserForm{
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		MiddleName: u.MiddleName,
		Phone:      u.Phone,
		Address:    u.Address,
		Email:      u.Email,
		IsActive:   u.IsActive,
	}
}

func (f AdminUserForm) apply(u *User) {
	u.FirstName = f.FirstName
	u.LastName = f.LastName
	u.MiddleName = f.MiddleName
	u.Phone = f.Phone
	u.Address = f.Address
	u.Email = f.Email
	u.IsActive = f.IsActive
}
