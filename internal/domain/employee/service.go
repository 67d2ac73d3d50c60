package employee

import (
	"context"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
)

// EmployeeService defines read operations over employees and their ledgers
type EmployeeService interface {
	// GetEmployee retrieves a single employee by ID
	GetEmployee(ctx context.Context, id int) (EmployeeResponse, error)

	// ListEmployees lists employees with filters
	ListEmployees(ctx context.Context, filter EmployeeFilter) (ListEmployeeResponse, error)

	// ListLoans returns the loan ledger of an employee, oldest first
	ListLoans(ctx context.Context, employeeID int) (loan.LedgerResponse, error)

	// ListChallans returns the traffic challan ledger of an employee, oldest first
	ListChallans(ctx context.Context, employeeID int) (challan.LedgerResponse, error)
}
