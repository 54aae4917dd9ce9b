// AngelaMos | 2026
// entity.go

package user

import (
	"strings"
	"time"
)

type User struct {
	ID           int64     `db:"id"`
	Phone        string    `db:"phone"`
	Email        string    `db:"email"`
	FirstName    string    `db:"first_name"`
	LastName     string    `db:"last_name"`
	MiddleName   string    `db:"middle_name"`
	Address      string    `db:"address"`
	PasswordHash string    `db:"password_hash"`
	IsActive     bool      `db:"is_active"`
	IsStaff      bool      `db:"is_staff"`
	IsSuperuser  bool      `db:"is_superuser"`
	DateJoined   time.Time `db:"date_joined"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.IsSuperuser
}

func (u *User) HasAddress() bool {
	return strings.TrimSpace(u.Address) != ""
}

// FullName joins the non-empty name parts, falling back to the phone number.
func (u *User) FullName() string {
	parts := make([]string, 0, 3)
	for _, p := range []string{u.LastName, u.FirstName, u.MiddleName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if len(parts) == 0 {
		return u.Phone
	}
	return strings.Join(parts, " ")
}
