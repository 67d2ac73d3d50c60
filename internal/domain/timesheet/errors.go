package timesheet

import "errors"

var (
	ErrTimesheetNotFound = errors.New("timesheet not found")
	ErrUnrealisticDate   = errors.New("unrealistic date")
	ErrInvalidDateRange  = errors.New("date_from must not be after date_to")
	ErrEmptyUpload       = errors.New("upload contains no rows")
)
