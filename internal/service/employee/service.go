package employee

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
)

type EmployeeServiceImpl struct {
	employeeRepo employee.EmployeeRepository
	loanRepo     loan.LoanRepository
	challanRepo  challan.ChallanRepository
}

func NewEmployeeService(
	employeeRepo employee.EmployeeRepository,
	loanRepo loan.LoanRepository,
	challanRepo challan.ChallanRepository,
) employee.EmployeeService {
	return &EmployeeServiceImpl{
		employeeRepo: employeeRepo,
		loanRepo:     loanRepo,
		challanRepo:  challanRepo,
	}
}

// GetEmployee implements employee.EmployeeService.
func (s *EmployeeServiceImpl) GetEmployee(ctx context.Context, id int) (employee.EmployeeResponse, error) {
	if id < 1 {
		return employee.EmployeeResponse{}, employee.ErrInvalidEmployeeID
	}

	emp, err := s.employeeRepo.GetByID(ctx, id)
	if err != nil {
		return employee.EmployeeResponse{}, err
	}
	return toEmployeeResponse(emp), nil
}

// ListEmployees implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListEmployees(ctx context.Context, filter employee.EmployeeFilter) (employee.ListEmployeeResponse, error) {
	if err := filter.Validate(); err != nil {
		return employee.ListEmployeeResponse{}, err
	}

	employees, total, err := s.employeeRepo.List(ctx, filter)
	if err != nil {
		return employee.ListEmployeeResponse{}, fmt.Errorf("failed to list employees: %w", err)
	}

	responses := make([]employee.EmployeeResponse, len(employees))
	for i, emp := range employees {
		responses[i] = toEmployeeResponse(emp)
	}

	// Calculate pagination
	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := "0 of 0"
	if total > 0 {
		from := (filter.Page-1)*filter.Limit + 1
		to := min(filter.Page*filter.Limit, int(total))
		showing = fmt.Sprintf("%d-%d of %d", from, to, total)
	}

	return employee.ListEmployeeResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Employees:  responses,
	}, nil
}

// ListLoans implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListLoans(ctx context.Context, employeeID int) (loan.LedgerResponse, error) {
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		return loan.LedgerResponse{}, err
	}

	loans, err := s.loanRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return loan.LedgerResponse{}, fmt.Errorf("failed to list loans: %w", err)
	}

	entries := make([]loan.LoanResponse, len(loans))
	for i, l := range loans {
		entries[i] = loan.LoanResponse{
			ID:      l.ID,
			Date:    l.Date.Format(time.DateOnly),
			Type:    string(l.Type),
			Amount:  l.Amount,
			Remarks: l.Remarks,
		}
	}

	return loan.LedgerResponse{
		EmployeeID: employeeID,
		Balance:    loan.Balance(loans),
		Entries:    entries,
	}, nil
}

// ListChallans implements employee.EmployeeService.
func (s *EmployeeServiceImpl) ListChallans(ctx context.Context, employeeID int) (challan.LedgerResponse, error) {
	if _, err := s.GetEmployee(ctx, employeeID); err != nil {
		return challan.LedgerResponse{}, err
	}

	challans, err := s.challanRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return challan.LedgerResponse{}, fmt.Errorf("failed to list traffic challans: %w", err)
	}

	entries := make([]challan.ChallanResponse, len(challans))
	for i, c := range challans {
		entries[i] = challan.ChallanResponse{
			ID:      c.ID,
			Date:    c.Date.Format(time.DateOnly),
			Type:    string(c.Type),
			Amount:  c.Amount,
			Remarks: c.Remarks,
		}
	}

	return challan.LedgerResponse{
		EmployeeID: employeeID,
		Balance:    challan.Balance(challans),
		Entries:    entries,
	}, nil
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.DateOnly)
	return &s
}

func toEmployeeResponse(e employee.Employee) employee.EmployeeResponse {
	var gender *string
	if e.Gender != nil {
		g := string(*e.Gender)
		gender = &g
	}

	return employee.EmployeeResponse{
		ID:                 e.ID,
		EmployeeCode:       e.EmployeeCode,
		NameEn:             e.NameEn,
		NameAr:             e.NameAr,
		Gender:             gender,
		DOB:                formatDate(e.DOB),
		Phone:              e.Phone,
		IqamaNumber:        e.IqamaNumber,
		DesignationID:      e.DesignationID,
		PayrollSectionID:   e.PayrollSectionID,
		CountryID:          e.CountryID,
		CityID:             e.CityID,
		BranchID:           e.BranchID,
		GosiCityID:         e.GosiCityID,
		IsFixed:            e.IsFixed,
		HoursPerDay:        e.HoursPerDay,
		BreakfastAllowance: e.BreakfastAllowance,
		HasTruckHouse:      e.HasTruckHouse,
		HourlyRate:         e.HourlyRate,
		Salary:             e.Salary,
		OtherAllowance:     e.OtherAllowance,
		BankName:           e.BankName,
		IBAN:               e.IBAN,
		JoiningDate:        formatDate(e.JoiningDate),
		IsActive:           e.IsActive,
	}
}
