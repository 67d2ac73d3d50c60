package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrEmployeeCodeExists   = errors.New("employee code already exists")
	ErrInvalidEmployeeID    = errors.New("invalid employee id")
	ErrInvalidEmployeeCode  = errors.New("invalid employee code")
	ErrInvalidDesignationID = errors.New("invalid designation id")
)
