package postgresql

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const timesheetColumns = `id, employee_id, date,
	project1_id, project1_hours, project1_overtime,
	project2_id, project2_hours, project2_overtime,
	total_hours, description, created_at, updated_at`

type timesheetRepositoryImpl struct {
	db *database.DB
}

func NewTimesheetRepository(db *database.DB) timesheet.TimesheetRepository {
	return &timesheetRepositoryImpl{db: db}
}

func scanTimesheet(row pgx.Row) (timesheet.Timesheet, error) {
	var t timesheet.Timesheet
	err := row.Scan(
		&t.ID, &t.EmployeeID, &t.Date,
		&t.Project1ID, &t.Project1Hours, &t.Project1Overtime,
		&t.Project2ID, &t.Project2Hours, &t.Project2Overtime,
		&t.TotalHours, &t.Description, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}

// Upsert implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) Upsert(ctx context.Context, t timesheet.Timesheet) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO timesheets (
			id, employee_id, date,
			project1_id, project1_hours, project1_overtime,
			project2_id, project2_hours, project2_overtime,
			total_hours, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			employee_id = EXCLUDED.employee_id,
			date = EXCLUDED.date,
			project1_id = EXCLUDED.project1_id,
			project1_hours = EXCLUDED.project1_hours,
			project1_overtime = EXCLUDED.project1_overtime,
			project2_id = EXCLUDED.project2_id,
			project2_hours = EXCLUDED.project2_hours,
			project2_overtime = EXCLUDED.project2_overtime,
			total_hours = EXCLUDED.total_hours,
			description = EXCLUDED.description,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := q.QueryRow(ctx, query,
		t.ID, t.EmployeeID, t.Date,
		t.Project1ID, t.Project1Hours, t.Project1Overtime,
		t.Project2ID, t.Project2Hours, t.Project2Overtime,
		t.TotalHours, t.Description,
	).Scan(&inserted)
	if err != nil {
		return false, fmt.Errorf("failed to upsert timesheet %d: %w", t.ID, err)
	}
	return inserted, nil
}

// UpsertByEmployeeDate implements timesheet.TimesheetRepository. Historical
// data may hold several rows for one employee and date; the lowest id wins.
func (r *timesheetRepositoryImpl) UpsertByEmployeeDate(ctx context.Context, t timesheet.Timesheet) (bool, error) {
	q := GetQuerier(ctx, r.db)

	update := `
		UPDATE timesheets SET
			project1_id = $3, project1_hours = $4, project1_overtime = $5,
			project2_id = $6, project2_hours = $7, project2_overtime = $8,
			total_hours = $9, description = $10, updated_at = NOW()
		WHERE id = (
			SELECT id FROM timesheets
			WHERE employee_id = $1 AND date = $2
			ORDER BY id
			LIMIT 1
		)
	`
	args := []interface{}{
		t.EmployeeID, t.Date,
		t.Project1ID, t.Project1Hours, t.Project1Overtime,
		t.Project2ID, t.Project2Hours, t.Project2Overtime,
		t.TotalHours, t.Description,
	}

	tag, err := q.Exec(ctx, update, args...)
	if err != nil {
		return false, fmt.Errorf("failed to update timesheet of employee %d: %w", t.EmployeeID, err)
	}
	if tag.RowsAffected() > 0 {
		return false, nil
	}

	insert := `
		INSERT INTO timesheets (
			employee_id, date,
			project1_id, project1_hours, project1_overtime,
			project2_id, project2_hours, project2_overtime,
			total_hours, description
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	if _, err := q.Exec(ctx, insert, args...); err != nil {
		return false, fmt.Errorf("failed to insert timesheet of employee %d: %w", t.EmployeeID, err)
	}
	return true, nil
}

// List implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) List(ctx context.Context, filter timesheet.TimesheetFilter) ([]timesheet.Timesheet, int64, error) {
	q := GetQuerier(ctx, r.db)

	where := sq.And{}
	if filter.EmployeeID != nil {
		where = append(where, sq.Eq{"employee_id": *filter.EmployeeID})
	}
	if filter.DateFrom != nil && *filter.DateFrom != "" {
		where = append(where, sq.GtOrEq{"date": *filter.DateFrom})
	}
	if filter.DateTo != nil && *filter.DateTo != "" {
		where = append(where, sq.LtOrEq{"date": *filter.DateTo})
	}

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("timesheets").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build timesheet count query: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count timesheets: %w", err)
	}

	query, args, err := psql.Select(timesheetColumns).
		From("timesheets").
		Where(where).
		OrderBy("date DESC", "employee_id ASC", "id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build timesheet list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list timesheets: %w", err)
	}
	defer rows.Close()

	var timesheets []timesheet.Timesheet
	for rows.Next() {
		t, err := scanTimesheet(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan timesheet: %w", err)
		}
		timesheets = append(timesheets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return timesheets, total, nil
}

// SyncIDSequence implements timesheet.TimesheetRepository.
func (r *timesheetRepositoryImpl) SyncIDSequence(ctx context.Context) error {
	return syncSequence(ctx, GetQuerier(ctx, r.db), "timesheets")
}
