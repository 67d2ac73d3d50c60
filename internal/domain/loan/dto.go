package loan

import "github.com/shopspring/decimal"

type LoanResponse struct {
	ID      int             `json:"id"`
	Date    string          `json:"date"`
	Type    string          `json:"type"`
	Amount  decimal.Decimal `json:"amount"`
	Remarks *string         `json:"remarks"`
}

type LedgerResponse struct {
	EmployeeID int             `json:"employee_id"`
	Balance    decimal.Decimal `json:"balance"`
	Entries    []LoanResponse  `json:"entries"`
}
