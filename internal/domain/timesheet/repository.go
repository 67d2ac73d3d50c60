package timesheet

import "context"

type TimesheetRepository interface {
	// Upsert writes t keyed by its explicit ID.
	Upsert(ctx context.Context, t Timesheet) (inserted bool, err error)

	// UpsertByEmployeeDate writes t keyed by (employee_id, date); t.ID is ignored.
	UpsertByEmployeeDate(ctx context.Context, t Timesheet) (inserted bool, err error)

	List(ctx context.Context, filter TimesheetFilter) ([]Timesheet, int64, error)
	SyncIDSequence(ctx context.Context) error
}
