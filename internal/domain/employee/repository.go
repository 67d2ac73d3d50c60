package employee

import "context"

type EmployeeRepository interface {
	// Upsert writes e keyed by its explicit ID. inserted is false when an
	// existing row was updated.
	Upsert(ctx context.Context, e Employee) (inserted bool, err error)

	GetByID(ctx context.Context, id int) (Employee, error)
	GetByCode(ctx context.Context, code string) (Employee, error)
	List(ctx context.Context, filter EmployeeFilter) ([]Employee, int64, error)

	// ListIDs returns every known employee ID, used by batch imports to
	// check references once per run.
	ListIDs(ctx context.Context) ([]int, error)

	// ListCodes maps employee code to employee ID.
	ListCodes(ctx context.Context) (map[string]int, error)

	// SyncIDSequence moves the id sequence past MAX(id) after explicit-ID inserts.
	SyncIDSequence(ctx context.Context) error
}
