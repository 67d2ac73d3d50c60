package importer

import "errors"

// Record-level rejections. The message is the skip-reason key in a run report.
var (
	ErrInvalidID               = errors.New("invalid id")
	ErrInvalidEmployeeID       = errors.New("invalid employee id")
	ErrZeroAmounts             = errors.New("zero amounts")
	ErrMissingDate             = errors.New("missing date")
	ErrUnrealisticDate         = errors.New("unrealistic date")
	ErrMissingEmployee         = errors.New("missing employee")
	ErrMissingPayrollReference = errors.New("missing payroll reference")
	ErrInvalidPeriod           = errors.New("invalid payroll period")
)
