package challan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeChallan Type = "CHALLAN"
	TypeReturn  Type = "RETURN"
)

// TrafficChallan is a traffic fine charged to an employee, or one recovery of it.
type TrafficChallan struct {
	ID         int
	EmployeeID int
	Date       time.Time
	Type       Type
	Amount     decimal.Decimal
	Remarks    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Balance returns fines charged minus amounts recovered.
func Balance(challans []TrafficChallan) decimal.Decimal {
	balance := decimal.Zero
	for _, c := range challans {
		switch c.Type {
		case TypeChallan:
			balance = balance.Add(c.Amount)
		case TypeReturn:
			balance = balance.Sub(c.Amount)
		}
	}
	return balance
}
