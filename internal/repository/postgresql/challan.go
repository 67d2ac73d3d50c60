package postgresql

import (
	"context"
	"fmt"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/challan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
)

type challanRepositoryImpl struct {
	db *database.DB
}

func NewChallanRepository(db *database.DB) challan.ChallanRepository {
	return &challanRepositoryImpl{db: db}
}

// Upsert implements challan.ChallanRepository.
func (r *challanRepositoryImpl) Upsert(ctx context.Context, c challan.TrafficChallan) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO traffic_challans (id, employee_id, date, type, amount, remarks)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			date = EXCLUDED.date,
			type = EXCLUDED.type,
			amount = EXCLUDED.amount,
			remarks = EXCLUDED.remarks,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := q.QueryRow(ctx, query, c.ID, c.EmployeeID, c.Date, c.Type, c.Amount, c.Remarks).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert traffic challan %d: %w", c.ID, err)
	}
	return inserted, nil
}

// ListByEmployee implements challan.ChallanRepository.
func (r *challanRepositoryImpl) ListByEmployee(ctx context.Context, employeeID int) ([]challan.TrafficChallan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, type, amount, remarks, created_at, updated_at
		FROM traffic_challans
		WHERE employee_id = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list traffic challans: %w", err)
	}
	defer rows.Close()

	var challans []challan.TrafficChallan
	for rows.Next() {
		var c challan.TrafficChallan
		if err := rows.Scan(&c.ID, &c.EmployeeID, &c.Date, &c.Type, &c.Amount, &c.Remarks, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan traffic challan: %w", err)
		}
		challans = append(challans, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return challans, nil
}

// SyncIDSequence implements challan.ChallanRepository.
func (r *challanRepositoryImpl) SyncIDSequence(ctx context.Context) error {
	return syncSequence(ctx, GetQuerier(ctx, r.db), "traffic_challans")
}
