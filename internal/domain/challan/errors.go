package challan

import "errors"

var (
	ErrChallanNotFound = errors.New("traffic challan not found")
	ErrInvalidType     = errors.New("invalid traffic challan type")
)
