package postgresql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const summaryColumns = `id, payroll_month, payroll_year, branch_id, payroll_status_id,
	total_salary, total_previous_advance, total_current_advance, total_deduction,
	total_net_loan, total_net_salary_payable, total_card_salary, total_cash_salary,
	remarks, created_at, updated_at`

const detailColumns = `id, payroll_id, employee_id, payroll_month, payroll_year, branch_id,
	work_days, work_hours, hourly_rate, salary, overtime_hours, overtime_amount,
	breakfast_allowance, other_allowances, total_allowances,
	previous_loan, current_loan, deduction_loan, net_loan,
	previous_challan, current_challan, deduction_challan, net_challan,
	net_salary_payable, card_salary, cash_salary, payment_method_id, remarks,
	created_at, updated_at`

// detailSet is the shared SET list of both detail upserts.
const detailSet = `
			payroll_month = EXCLUDED.payroll_month,
			payroll_year = EXCLUDED.payroll_year,
			branch_id = EXCLUDED.branch_id,
			work_days = EXCLUDED.work_days,
			work_hours = EXCLUDED.work_hours,
			hourly_rate = EXCLUDED.hourly_rate,
			salary = EXCLUDED.salary,
			overtime_hours = EXCLUDED.overtime_hours,
			overtime_amount = EXCLUDED.overtime_amount,
			breakfast_allowance = EXCLUDED.breakfast_allowance,
			other_allowances = EXCLUDED.other_allowances,
			total_allowances = EXCLUDED.total_allowances,
			previous_loan = EXCLUDED.previous_loan,
			current_loan = EXCLUDED.current_loan,
			deduction_loan = EXCLUDED.deduction_loan,
			net_loan = EXCLUDED.net_loan,
			previous_challan = EXCLUDED.previous_challan,
			current_challan = EXCLUDED.current_challan,
			deduction_challan = EXCLUDED.deduction_challan,
			net_challan = EXCLUDED.net_challan,
			net_salary_payable = EXCLUDED.net_salary_payable,
			card_salary = EXCLUDED.card_salary,
			cash_salary = EXCLUDED.cash_salary,
			payment_method_id = EXCLUDED.payment_method_id,
			remarks = EXCLUDED.remarks,
			updated_at = NOW()`

type payrollRepositoryImpl struct {
	db *database.DB
}

func NewPayrollRepository(db *database.DB) payroll.PayrollRepository {
	return &payrollRepositoryImpl{db: db}
}

func scanSummary(row pgx.Row) (payroll.Summary, error) {
	var s payroll.Summary
	err := row.Scan(
		&s.ID, &s.PayrollMonth, &s.PayrollYear, &s.BranchID, &s.PayrollStatusID,
		&s.TotalSalary, &s.TotalPreviousAdvance, &s.TotalCurrentAdvance, &s.TotalDeduction,
		&s.TotalNetLoan, &s.TotalNetSalaryPayable, &s.TotalCardSalary, &s.TotalCashSalary,
		&s.Remarks, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

func scanDetail(row pgx.Row) (payroll.Detail, error) {
	var d payroll.Detail
	err := row.Scan(
		&d.ID, &d.PayrollID, &d.EmployeeID, &d.PayrollMonth, &d.PayrollYear, &d.BranchID,
		&d.WorkDays, &d.WorkHours, &d.HourlyRate, &d.Salary, &d.OvertimeHours, &d.OvertimeAmount,
		&d.BreakfastAllowance, &d.OtherAllowances, &d.TotalAllowances,
		&d.PreviousLoan, &d.CurrentLoan, &d.DeductionLoan, &d.NetLoan,
		&d.PreviousChallan, &d.CurrentChallan, &d.DeductionChallan, &d.NetChallan,
		&d.NetSalaryPayable, &d.CardSalary, &d.CashSalary, &d.PaymentMethodID, &d.Remarks,
		&d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func detailArgs(d payroll.Detail) []interface{} {
	return []interface{}{
		d.PayrollID, d.EmployeeID, d.PayrollMonth, d.PayrollYear, d.BranchID,
		d.WorkDays, d.WorkHours, d.HourlyRate, d.Salary, d.OvertimeHours, d.OvertimeAmount,
		d.BreakfastAllowance, d.OtherAllowances, d.TotalAllowances,
		d.PreviousLoan, d.CurrentLoan, d.DeductionLoan, d.NetLoan,
		d.PreviousChallan, d.CurrentChallan, d.DeductionChallan, d.NetChallan,
		d.NetSalaryPayable, d.CardSalary, d.CashSalary, d.PaymentMethodID, d.Remarks,
	}
}

// UpsertSummary implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpsertSummary(ctx context.Context, s payroll.Summary) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_summaries (
			id, payroll_month, payroll_year, branch_id, payroll_status_id,
			total_salary, total_previous_advance, total_current_advance, total_deduction,
			total_net_loan, total_net_salary_payable, total_card_salary, total_cash_salary,
			remarks
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (id) DO UPDATE SET
			payroll_month = EXCLUDED.payroll_month,
			payroll_year = EXCLUDED.payroll_year,
			branch_id = EXCLUDED.branch_id,
			payroll_status_id = EXCLUDED.payroll_status_id,
			total_salary = EXCLUDED.total_salary,
			total_previous_advance = EXCLUDED.total_previous_advance,
			total_current_advance = EXCLUDED.total_current_advance,
			total_deduction = EXCLUDED.total_deduction,
			total_net_loan = EXCLUDED.total_net_loan,
			total_net_salary_payable = EXCLUDED.total_net_salary_payable,
			total_card_salary = EXCLUDED.total_card_salary,
			total_cash_salary = EXCLUDED.total_cash_salary,
			remarks = EXCLUDED.remarks,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := q.QueryRow(ctx, query,
		s.ID, s.PayrollMonth, s.PayrollYear, s.BranchID, s.PayrollStatusID,
		s.TotalSalary, s.TotalPreviousAdvance, s.TotalCurrentAdvance, s.TotalDeduction,
		s.TotalNetLoan, s.TotalNetSalaryPayable, s.TotalCardSalary, s.TotalCashSalary,
		s.Remarks,
	).Scan(&inserted)
	if err != nil {
		if isUniqueViolation(err) {
			return false, payroll.ErrSummaryAlreadyExists
		}
		return false, fmt.Errorf("failed to upsert payroll summary %d: %w", s.ID, err)
	}
	return inserted, nil
}

// GetSummaryByID implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetSummaryByID(ctx context.Context, id int) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + summaryColumns + ` FROM payroll_summaries WHERE id = $1`

	s, err := scanSummary(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return payroll.Summary{}, payroll.ErrPayrollSummaryNotFound
		}
		return payroll.Summary{}, fmt.Errorf("failed to get payroll summary by id: %w", err)
	}
	return s, nil
}

// GetSummaryForUpdate implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) GetSummaryForUpdate(ctx context.Context, p payroll.Period) (payroll.Summary, error) {
	q := GetQuerier(ctx, r.db)

	where := sq.And{
		sq.Eq{"payroll_month": p.Month},
		sq.Eq{"payroll_year": p.Year},
	}
	if p.BranchID != nil {
		where = append(where, sq.Eq{"branch_id": *p.BranchID})
	}
	query, args, err := psql.Select(summaryColumns).
		From("payroll_summaries").
		Where(where).
		OrderBy("id").
		Suffix("FOR UPDATE").
		ToSql()
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to build payroll summary query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return payroll.Summary{}, fmt.Errorf("failed to lock payroll summary: %w", err)
	}
	defer rows.Close()

	var candidates []payroll.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return payroll.Summary{}, fmt.Errorf("failed to scan payroll summary: %w", err)
		}
		candidates = append(candidates, s)
	}
	if err := rows.Err(); err != nil {
		return payroll.Summary{}, err
	}

	return payroll.SelectSummary(candidates, p)
}

// ListSummaries implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListSummaries(ctx context.Context, filter payroll.SummaryFilter) ([]payroll.Summary, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := sq.And{}
	if filter.PayrollYear != nil {
		where = append(where, sq.Eq{"payroll_year": *filter.PayrollYear})
	}
	if filter.PayrollMonth != nil {
		where = append(where, sq.Eq{"payroll_month": *filter.PayrollMonth})
	}
	if filter.BranchID != nil {
		where = append(where, sq.Eq{"branch_id": *filter.BranchID})
	}
	if filter.PayrollStatusID != nil {
		where = append(where, sq.Eq{"payroll_status_id": *filter.PayrollStatusID})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("payroll_summaries").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build payroll summary count query: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payroll summaries: %w", err)
	}

	query, args, err := psql.Select(summaryColumns).
		From("payroll_summaries").
		Where(where).
		OrderBy("payroll_year DESC", "payroll_month DESC", "id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build payroll summary list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payroll summaries: %w", err)
	}
	defer rows.Close()

	var summaries []payroll.Summary
	for rows.Next() {
		s, err := scanSummary(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payroll summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return summaries, total, nil
}

// UpdateSummaryTotals implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpdateSummaryTotals(ctx context.Context, id int, t payroll.Totals, statusID int) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE payroll_summaries SET
			total_salary = $2,
			total_previous_advance = $3,
			total_current_advance = $4,
			total_deduction = $5,
			total_net_loan = $6,
			total_net_salary_payable = $7,
			total_card_salary = $8,
			total_cash_salary = $9,
			payroll_status_id = $10,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query, id,
		t.TotalSalary, t.TotalPreviousAdvance, t.TotalCurrentAdvance, t.TotalDeduction,
		t.TotalNetLoan, t.TotalNetSalaryPayable, t.TotalCardSalary, t.TotalCashSalary,
		statusID,
	)
	if err != nil {
		return fmt.Errorf("failed to update payroll summary totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return payroll.ErrPayrollSummaryNotFound
	}
	return nil
}

// SyncSummaryIDSequence implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) SyncSummaryIDSequence(ctx context.Context) error {
	return syncSequence(ctx, GetQuerier(ctx, r.db), "payroll_summaries")
}

// UpsertDetail implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpsertDetail(ctx context.Context, d payroll.Detail) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_details (
			id, payroll_id, employee_id, payroll_month, payroll_year, branch_id,
			work_days, work_hours, hourly_rate, salary, overtime_hours, overtime_amount,
			breakfast_allowance, other_allowances, total_allowances,
			previous_loan, current_loan, deduction_loan, net_loan,
			previous_challan, current_challan, deduction_challan, net_challan,
			net_salary_payable, card_salary, cash_salary, payment_method_id, remarks
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)
		ON CONFLICT (id) DO UPDATE SET
			payroll_id = EXCLUDED.payroll_id,
			employee_id = EXCLUDED.employee_id,` + detailSet + `
		RETURNING (xmax = 0) AS inserted
	`

	args := append([]interface{}{d.ID}, detailArgs(d)...)

	var inserted bool
	if err := q.QueryRow(ctx, query, args...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("failed to upsert payroll detail %d: %w", d.ID, err)
	}
	return inserted, nil
}

// UpsertDetailByPayrollEmployee implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) UpsertDetailByPayrollEmployee(ctx context.Context, d payroll.Detail) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO payroll_details (
			payroll_id, employee_id, payroll_month, payroll_year, branch_id,
			work_days, work_hours, hourly_rate, salary, overtime_hours, overtime_amount,
			breakfast_allowance, other_allowances, total_allowances,
			previous_loan, current_loan, deduction_loan, net_loan,
			previous_challan, current_challan, deduction_challan, net_challan,
			net_salary_payable, card_salary, cash_salary, payment_method_id, remarks
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27
		)
		ON CONFLICT (payroll_id, employee_id) DO UPDATE SET` + detailSet + `
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	if err := q.QueryRow(ctx, query, detailArgs(d)...).Scan(&inserted); err != nil {
		return false, fmt.Errorf("failed to upsert payroll detail (payroll %d, employee %d): %w", d.PayrollID, d.EmployeeID, err)
	}
	return inserted, nil
}

func (r *payrollRepositoryImpl) listDetails(ctx context.Context, where sq.Sqlizer) ([]payroll.Detail, error) {
	q := GetQuerier(ctx, r.db)

	query, args, err := psql.Select(detailColumns).
		From("payroll_details").
		Where(where).
		OrderBy("employee_id ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build payroll detail query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll details: %w", err)
	}
	defer rows.Close()

	var details []payroll.Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payroll detail: %w", err)
		}
		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return details, nil
}

// ListDetailsByPeriod implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListDetailsByPeriod(ctx context.Context, p payroll.Period) ([]payroll.Detail, error) {
	where := sq.And{
		sq.Eq{"payroll_month": p.Month},
		sq.Eq{"payroll_year": p.Year},
	}
	if p.BranchID != nil {
		where = append(where, sq.Eq{"branch_id": *p.BranchID})
	}
	return r.listDetails(ctx, where)
}

// ListDetailsBySummary implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) ListDetailsBySummary(ctx context.Context, summaryID int) ([]payroll.Detail, error) {
	return r.listDetails(ctx, sq.Eq{"payroll_id": summaryID})
}

// SyncDetailIDSequence implements payroll.PayrollRepository.
func (r *payrollRepositoryImpl) SyncDetailIDSequence(ctx context.Context) error {
	return syncSequence(ctx, GetQuerier(ctx, r.db), "payroll_details")
}
