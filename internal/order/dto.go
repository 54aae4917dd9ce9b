// AngelaMos | 2026
// dto.go

package order

import (
	"strings"
)

type StatusForm struct {
	Status string `schema:"status" validate:"required"`
}

type AdminOrderForm struct {
	UserID  int64  `schema:"user"    validate:"required,gt=0"`
	Status  string `schema:"status"  validate:"required"`
	Address string `schema:"address" validate:"required,max=500"`
}

func (f *AdminOrderForm) Normalize() {
	f.Status = strings.TrimSpace(f.Status)
	f.Address = strings.TrimSpace(f.Address)
}

func AdminOrderFormFrom(o *Order) AdminOrderForm {
	return AdminOrderForm{
		UserID:  o.UserID,
		Status:  string(o.Status),
		Address: o.Address,
	}
}
