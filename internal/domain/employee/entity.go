package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID                 int
	EmployeeCode       string
	NameEn             *string
	NameAr             *string
	Gender             *Gender
	DOB                *time.Time
	Phone              *string
	IqamaNumber        *string
	DesignationID      *int
	PayrollSectionID   *int
	CountryID          *int
	CityID             *int
	BranchID           int
	GosiCityID         int
	IsFixed            bool
	HoursPerDay        int
	BreakfastAllowance bool
	HasTruckHouse      bool
	HourlyRate         decimal.Decimal
	Salary             decimal.Decimal
	OtherAllowance     decimal.Decimal
	BankName           *string
	IBAN               *string
	JoiningDate        *time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type Gender string

const (
	Male   Gender = "Male"
	Female Gender = "Female"
)

// DisplayName prefers the English name, falling back to the Arabic one and
// then the employee code.
func (e Employee) DisplayName() string {
	if e.NameEn != nil && *e.NameEn != "" {
		return *e.NameEn
	}
	if e.NameAr != nil && *e.NameAr != "" {
		return *e.NameAr
	}
	return e.EmployeeCode
}
