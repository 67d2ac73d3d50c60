package timesheet

import (
	"context"
	"io"
)

type TimesheetService interface {
	ListTimesheets(ctx context.Context, filter TimesheetFilter) (ListTimesheetResponse, error)

	// BulkUpload reads a csv or xlsx upload whose rows identify employees by
	// EmployeeCode and upserts one timesheet per (employee, date).
	BulkUpload(ctx context.Context, file io.Reader, ext string) (BulkUploadResult, error)
}
