package timesheet

import (
	"time"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
)

type TimesheetFilter struct {
	EmployeeID *int
	DateFrom   *string
	DateTo     *string
	Page       int
	Limit      int
}

func (f *TimesheetFilter) Validate() error {
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
	if f.EmployeeID != nil && *f.EmployeeID < 1 {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a positive integer",
		})
	}

	var from *time.Time
	if f.DateFrom != nil {
		d, ok := validator.IsValidDate(*f.DateFrom)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be in YYYY-MM-DD format",
			})
		} else {
			from = &d
		}
	}
	if f.DateTo != nil {
		d, ok := validator.IsValidDate(*f.DateTo)
		if !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be in YYYY-MM-DD format",
			})
		} else if from != nil && d.Before(*from) {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: ErrInvalidDateRange.Error(),
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type TimesheetResponse struct {
	ID               int     `json:"id"`
	EmployeeID       int     `json:"employee_id"`
	Date             string  `json:"date"`
	Project1ID       *int    `json:"project1_id"`
	Project1Hours    *int    `json:"project1_hours"`
	Project1Overtime *int    `json:"project1_overtime"`
	Project2ID       *int    `json:"project2_id"`
	Project2Hours    *int    `json:"project2_hours"`
	Project2Overtime *int    `json:"project2_overtime"`
	TotalHours       *int    `json:"total_hours"`
	Description      *string `json:"description"`
}

type ListTimesheetResponse struct {
	TotalCount int64               `json:"total_count"`
	Page       int                 `json:"page"`
	Limit      int                 `json:"limit"`
	TotalPages int                 `json:"total_pages"`
	Showing    string              `json:"showing"`
	Timesheets []TimesheetResponse `json:"timesheets"`
}

// Bulk upload row outcomes
const (
	UploadStatusSuccess = "success"
	UploadStatusSkipped = "skipped"
	UploadStatusFailed  = "failed"
)

type BulkUploadDetail struct {
	Row          int    `json:"row"`
	EmployeeCode string `json:"employeeCode"`
	Date         string `json:"date"`
	Status       string `json:"status"`
	Message      string `json:"message"`
}

// BulkUploadResult is the per-upload outcome returned to the UI.
type BulkUploadResult struct {
	Success int                `json:"success"`
	Skipped int                `json:"skipped"`
	Failed  int                `json:"failed"`
	Details []BulkUploadDetail `json:"details"`
}

func (r *BulkUploadResult) Add(d BulkUploadDetail) {
	switch d.Status {
	case UploadStatusSuccess:
		r.Success++
	case UploadStatusSkipped:
		r.Skipped++
	default:
		r.Failed++
	}
	r.Details = append(r.Details, d)
}
