package employee

import (
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type EmployeeFilter struct {
	Search        *string
	BranchID      *int
	DesignationID *int
	IsFixed       *bool
	IsActive      *bool
	Page          int
	Limit         int
}

func (f *EmployeeFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}
	if f.Search != nil && len(*f.Search) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "search",
			Message: "search must not exceed 100 characters",
		})
	}
	if f.BranchID != nil && *f.BranchID < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "branch_id",
			Message: "branch_id must be a positive integer",
		})
	}
	if f.DesignationID != nil && *f.DesignationID < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "designation_id",
			Message: "designation_id must be a positive integer",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type EmployeeResponse struct {
	ID                 int             `json:"id"`
	EmployeeCode       string          `json:"employee_code"`
	NameEn             *string         `json:"name_en"`
	NameAr             *string         `json:"name_ar"`
	Gender             *string         `json:"gender"`
	DOB                *string         `json:"dob"`
	Phone              *string         `json:"phone"`
	IqamaNumber        *string         `json:"iqama_number"`
	DesignationID      *int            `json:"designation_id"`
	PayrollSectionID   *int            `json:"payroll_section_id"`
	CountryID          *int            `json:"country_id"`
	CityID             *int            `json:"city_id"`
	BranchID           int             `json:"branch_id"`
	GosiCityID         int             `json:"gosi_city_id"`
	IsFixed            bool            `json:"is_fixed"`
	HoursPerDay        int             `json:"hours_per_day"`
	BreakfastAllowance bool            `json:"breakfast_allowance"`
	HasTruckHouse      bool            `json:"has_truck_house"`
	HourlyRate         decimal.Decimal `json:"hourly_rate"`
	Salary             decimal.Decimal `json:"salary"`
	OtherAllowance     decimal.Decimal `json:"other_allowance"`
	BankName           *string         `json:"bank_name"`
	IBAN               *string         `json:"iban"`
	JoiningDate        *string         `json:"joining_date"`
	IsActive           bool            `json:"is_active"`
}

type ListEmployeeResponse struct {
	TotalCount int64              `json:"total_count"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"total_pages"`
	Showing    string             `json:"showing"`
	Employees  []EmployeeResponse `json:"employees"`
}
