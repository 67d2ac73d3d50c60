package loan

import "context"

type LoanRepository interface {
	Upsert(ctx context.Context, l Loan) (inserted bool, err error)
	ListByEmployee(ctx context.Context, employeeID int) ([]Loan, error)
	SyncIDSequence(ctx context.Context) error
}
