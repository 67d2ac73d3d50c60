package postgresql

import (
	"context"
	"fmt"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/loan"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
)

type loanRepositoryImpl struct {
	db *database.DB
}

func NewLoanRepository(db *database.DB) loan.LoanRepository {
	return &loanRepositoryImpl{db: db}
}

// Upsert implements loan.LoanRepository.
func (r *loanRepositoryImpl) Upsert(ctx context.Context, l loan.Loan) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO loans (id, employee_id, date, type, amount, remarks)
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
	err := q.QueryRow(ctx, query, l.ID, l.EmployeeID, l.Date, l.Type, l.Amount, l.Remarks).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert loan %d: %w", l.ID, err)
	}
	return inserted, nil
}

// ListByEmployee implements loan.LoanRepository.
func (r *loanRepositoryImpl) ListByEmployee(ctx context.Context, employeeID int) ([]loan.Loan, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, date, type, amount, remarks, created_at, updated_at
		FROM loans
		WHERE employee_id = $1
		ORDER BY date ASC, id ASC
	`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list loans: %w", err)
	}
	defer rows.Close()

	var loans []loan.Loan
	for rows.Next() {
		var l loan.Loan
		if err := rows.Scan(&l.ID, &l.EmployeeID, &l.Date, &l.Type, &l.Amount, &l.Remarks, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return loans, nil
}

// SyncIDSequence implements loan.LoanRepository.
func (r *loanRepositoryImpl) SyncIDSequence(ctx context.Context) error {
	return syncSequence(ctx, GetQuerier(ctx, r.db), "loans")
}
