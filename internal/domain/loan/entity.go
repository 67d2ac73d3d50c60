package loan

import (
	"time"

	"github.com/shopspring/decimal"
)

type Type string

const (
	TypeLoan   Type = "LOAN"
	TypeReturn Type = "RETURN"
)

// Loan is one advance paid to an employee, or one repayment of it.
type Loan struct {
	ID         int
	EmployeeID int
	Date       time.Time
	Type       Type
	Amount     decimal.Decimal
	Remarks    *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Balance returns the outstanding amount: advances minus repayments.
func Balance(loans []Loan) decimal.Decimal {
	balance := decimal.Zero
	for _, l := range loans {
		switch l.Type {
		case TypeLoan:
			balance = balance.Add(l.Amount)
		case TypeReturn:
			balance = balance.Sub(l.Amount)
		}
	}
	return balance
}
