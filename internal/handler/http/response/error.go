package response

import (
	"errors"
	"net/http"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/auth"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/user"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrAccountInactive):
		Forbidden(w, "Account is inactive")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrEmailAlreadyExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrCannotEditSuperUser):
		Forbidden(w, "Super admin privileges cannot be changed")
	case errors.Is(err, user.ErrUnknownModule), errors.Is(err, user.ErrUnknownAction), errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, err.Error(), nil)

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")
	case errors.Is(err, employee.ErrInvalidEmployeeID):
		BadRequest(w, "Invalid employee ID", nil)

	// Timesheet domain errors
	case errors.Is(err, timesheet.ErrTimesheetNotFound):
		NotFound(w, "Timesheet not found")
	case errors.Is(err, timesheet.ErrEmptyUpload):
		BadRequest(w, "Upload contains no rows", nil)
	case errors.Is(err, source.ErrUnsupportedFormat):
		BadRequest(w, "Unsupported file format, use .csv, .json or .xlsx", nil)

	// Payroll domain errors
	case errors.Is(err, payroll.ErrPayrollSummaryNotFound):
		NotFound(w, "Payroll summary not found")
	case errors.Is(err, payroll.ErrPayrollDetailNotFound):
		NotFound(w, "Payroll detail not found")
	case errors.Is(err, payroll.ErrAmbiguousPeriod):
		Conflict(w, "Several branch payroll summaries exist for this period, specify a branch")
	case errors.Is(err, payroll.ErrSummaryAlreadyExists):
		Conflict(w, "Payroll summary already exists for this period")
	case errors.Is(err, payroll.ErrInvalidPeriod):
		BadRequest(w, "Invalid payroll period", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
