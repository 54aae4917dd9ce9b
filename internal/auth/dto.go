// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
)

type RegisterForm struct {
	FirstName  string `schema:"first_name"  validate:"required,max=30"`
	LastName   string `schema:"last_name"   validate:"required,max=30"`
	MiddleName string `schema:"middle_name" validate:"max=30"`
	Phone      string `schema:"phone"       validate:"required,phone"`
	Email      string `schema:"email"       validate:"required,email,max=254"`
	Password1  string `schema:"password1"   validate:"required,min=8,max=128"`
	Password2  string `schema:"password2"   validate:"required,eqfield=Password1"`
}

func (f *RegisterForm) Normalize() {
	f.Phone = strings.TrimSpace(f.Phone)
	f.FirstName = strings.TrimSpace(f.FirstName)
	f.LastName = strings.TrimSpace(f.LastName)
	f.MiddleName = strings.TrimSpace(f.MiddleName)
	f.Email = strings.ToLower(strings.TrimSpace(f.Email))
}

// Blank drops the password fields before a form is rendered back.
func (f RegisterForm) Blank() RegisterForm {
	f.Password1 = ""
	f.Password2 = ""
	return f
}

type LoginForm struct {
	Phone    string `schema:"phone"    validate:"required"`
	Password string `schema:"password" validate:"required"`
	Next     string `schema:"next"`
}

// NewAccount carries everything needed to create a user row.
type NewAccount struct {
	Phone        string
	Email        string
	FirstName    string
	LastName     string
	MiddleName   string
	Address      string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
}

// Session is what a successful login or registration hands to the handler.
type Session struct {
	Token  string
	Claims SessionClaims
	User   *UserInfo
}
