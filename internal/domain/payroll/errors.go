package payroll

import "errors"

var (
	ErrPayrollSummaryNotFound = errors.New("payroll summary not found")
	ErrPayrollDetailNotFound  = errors.New("payroll detail not found")
	ErrInvalidPeriod          = errors.New("invalid payroll period")
	ErrSummaryAlreadyExists   = errors.New("payroll summary already exists for this period")
	ErrAmbiguousPeriod        = errors.New("several branch payroll summaries exist for this period")
)
