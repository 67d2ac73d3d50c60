package payroll

import "context"

type PayrollService interface {
	// UpdateMonthlyPayrollValues re-sums the details of a period into its
	// existing summary and optionally marks it posted.
	UpdateMonthlyPayrollValues(ctx context.Context, req UpdateMonthlyValuesRequest) (SummaryResponse, error)

	ListSummaries(ctx context.Context, filter SummaryFilter) (ListSummaryResponse, error)
	GetSummary(ctx context.Context, id int) (SummaryResponse, error)
	ListDetails(ctx context.Context, summaryID int) ([]DetailResponse, error)
}
