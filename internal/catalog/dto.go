// AngelaMos | 2026
// dto.go

package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

// maxPrice is the largest value NUMERIC(10,2) holds.
var maxPrice = decimal.RequireFromString("99999999.99")

type CarForm struct {
	Price             decimal.Decimal `schema:"price"              validate:"-"`
	Power             int             `schema:"power"              validate:"gte=0"`
	Mileage           int             `schema:"mileage"            validate:"gte=0"`
	Transmission      string          `schema:"transmission"       validate:"required,oneof=auto manual robot"`
	Color             string          `schema:"color"              validate:"required,max=50"`
	Drive             string          `schema:"drive"              validate:"required,oneof=rear front full"`
	FuelType          string          `schema:"fuel_type"          validate:"required,oneof=petrol diesel electric hybrid"`
	Configuration     string          `schema:"configuration"      validate:"required,max=100"`
	ConfigurationDesc string          `schema:"configuration_desc" validate:"max=5000"`
	IsDeleted         bool            `schema:"is_deleted"`
}

func (f *CarForm) Normalize() {
	f.Color = strings.TrimSpace(f.Color)
	f.Configuration = strings.TrimSpace(f.Configuration)
	f.ConfigurationDesc = strings.TrimSpace(f.ConfigurationDesc)
	f.Price = f.Price.Round(2)
}

// CheckPrice covers what struct tags cannot express for a decimal.
func (f *CarForm) CheckPrice() (string, bool) {
	switch {
	case f.Price.IsNegative():
		return "Price cannot be negative", false
	case f.Price.GreaterThan(maxPrice):
		return "Price is too large", false
	}
	return "", true
}

func CarFormFrom(c *Car) CarForm {
	return CarForm{
		Price:             c.Price,
		Power:             c.Power,
		Mileage:           c.Mileage,
		Transmission:      string(c.Transmission),
		Color:             c.Color,
		Drive:             string(c.Drive),
		FuelType:          string(c.FuelType),
		Configuration:     c.Configuration,
		ConfigurationDesc: c.ConfigurationDesc,
		IsDeleted:         c.IsDeleted,
	}
}

func (f CarForm) apply(c *Car) {
	c.Price = f.Price
	c.Power = f.Power
	c.Mileage = f.Mileage
	c.Transmission = Transmission(f.Transmission)
	c.Color = f.Color
	c.Drive = Drive(f.Drive)
	c.FuelType = FuelType(f.FuelType)
	c.Configuration = f.Configuration
	c.ConfigurationDesc = f.ConfigurationDesc
	c.IsDeleted = f.IsDeleted
}
