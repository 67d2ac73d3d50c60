package challan

import "context"

type ChallanRepository interface {
	Upsert(ctx context.Context, c TrafficChallan) (inserted bool, err error)
	ListByEmployee(ctx context.Context, employeeID int) ([]TrafficChallan, error)
	SyncIDSequence(ctx context.Context) error
}
