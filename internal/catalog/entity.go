// AngelaMos | 2026
// entity.go

package catalog

import (
	"time"

	"github.com/shopspring/decimal"
)

type Transmission string

const (
	TransmissionAuto   Transmission = "auto"
	TransmissionManual Transmission = "manual"
	TransmissionRobot  Transmission = "robot"
)

type Drive string

const (
	DriveRear  Drive = "rear"
	DriveFront Drive = "front"
	DriveFull  Drive = "full"
)

type FuelType string

const (
	FuelPetrol   FuelType = "petrol"
	FuelDiesel   FuelType = "diesel"
	FuelElectric FuelType = "electric"
	FuelHybrid   FuelType = "hybrid"
)

// Choice is one option of a select box.
type Choice struct {
	Value string
	Label string
}

var (
	TransmissionChoices = []Choice{
		{Value: string(TransmissionAuto), Label: "Automatic"},
		{Value: string(TransmissionManual), Label: "Manual"},
		{Value: string(TransmissionRobot), Label: "Robotic"},
	}
	DriveChoices = []Choice{
		{Value: string(DriveRear), Label: "Rear-wheel drive"},
		{Value: string(DriveFront), Label: "Front-wheel drive"},
		{Value: string(DriveFull), Label: "All-wheel drive"},
	}
	FuelChoices = []Choice{
		{Value: string(FuelPetrol), Label: "Petrol"},
		{Value: string(FuelDiesel), Label: "Diesel"},
		{Value: string(FuelElectric), Label: "Electric"},
		{Value: string(FuelHybrid), Label: "Hybrid"},
	}
)

func labelOf(choices []Choice, value string) string {
	for _, c := range choices {
		if c.Value == value {
			return c.Label
		}
	}
	return value
}

func (t Transmission) Label() string { return labelOf(TransmissionChoices, string(t)) }
func (d Drive) Label() string        { return labelOf(DriveChoices, string(d)) }
func (f FuelType) Label() string     { return labelOf(FuelChoices, string(f)) }

type Car struct {
	ID                int64           `db:"id"`
	IsDeleted         bool            `db:"is_deleted"`
	Photo             string          `db:"photo"`
	Price             decimal.Decimal `db:"price"`
	Power             int             `db:"power"`
	Mileage           int             `db:"mileage"`
	Transmission      Transmission    `db:"transmission"`
	Color             string          `db:"color"`
	Drive             Drive           `db:"drive"`
	FuelType          FuelType        `db:"fuel_type"`
	Configuration     string          `db:"configuration"`
	ConfigurationDesc string          `db:"configuration_desc"`
	CreatedAt         time.Time       `db:"created_at"`
	UpdatedAt         time.Time       `db:"updated_at"`
}

// Available reports whether the car can still be viewed as on sale and
// added to a cart.
func (c *Car) Available() bool {
	return !c.IsDeleted
}
