package payroll

import "context"

type PayrollRepository interface {
	// Summaries
	UpsertSummary(ctx context.Context, s Summary) (inserted bool, err error)
	GetSummaryByID(ctx context.Context, id int) (Summary, error)

	// GetSummaryForUpdate locks the summary of p as chosen by SelectSummary.
	GetSummaryForUpdate(ctx context.Context, p Period) (Summary, error)
	ListSummaries(ctx context.Context, filter SummaryFilter) ([]Summary, int64, error)
	UpdateSummaryTotals(ctx context.Context, id int, totals Totals, statusID int) error
	SyncSummaryIDSequence(ctx context.Context) error

	// Details
	UpsertDetail(ctx context.Context, d Detail) (inserted bool, err error)

	// UpsertDetailByPayrollEmployee writes d keyed by (payroll_id, employee_id)
	// for rows that carry no primary key.
	UpsertDetailByPayrollEmployee(ctx context.Context, d Detail) (inserted bool, err error)

	// ListDetailsByPeriod returns the details of p. A nil branch returns every
	// detail of the month.
	ListDetailsByPeriod(ctx context.Context, p Period) ([]Detail, error)
	ListDetailsBySummary(ctx context.Context, summaryID int) ([]Detail, error)
	SyncDetailIDSequence(ctx context.Context) error
}
