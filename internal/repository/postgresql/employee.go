package postgresql

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/employee"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const employeeColumns = `id, employee_code, name_en, name_ar, gender, dob, phone, iqama_number,
	designation_id, payroll_section_id, country_id, city_id, branch_id, gosi_city_id,
	is_fixed, hours_per_day, breakfast_allowance, has_truck_house,
	hourly_rate, salary, other_allowance, bank_name, iban, joining_date, is_active,
	created_at, updated_at`

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var emp employee.Employee
	err := row.Scan(
		&emp.ID, &emp.EmployeeCode, &emp.NameEn, &emp.NameAr, &emp.Gender, &emp.DOB, &emp.Phone, &emp.IqamaNumber,
		&emp.DesignationID, &emp.PayrollSectionID, &emp.CountryID, &emp.CityID, &emp.BranchID, &emp.GosiCityID,
		&emp.IsFixed, &emp.HoursPerDay, &emp.BreakfastAllowance, &emp.HasTruckHouse,
		&emp.HourlyRate, &emp.Salary, &emp.OtherAllowance, &emp.BankName, &emp.IBAN, &emp.JoiningDate, &emp.IsActive,
		&emp.CreatedAt, &emp.UpdatedAt,
	)
	return emp, err
}

// isUniqueViolation reports whether err is a PostgreSQL unique_violation.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Upsert implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Upsert(ctx context.Context, e employee.Employee) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, employee_code, name_en, name_ar, gender, dob, phone, iqama_number,
			designation_id, payroll_section_id, country_id, city_id, branch_id, gosi_city_id,
			is_fixed, hours_per_day, breakfast_allowance, has_truck_house,
			hourly_rate, salary, other_allowance, bank_name, iban, joining_date, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18,
			$19, $20, $21, $22, $23, $24, $25
		)
		ON CONFLICT (id) DO UPDATE SET
			employee_code = EXCLUDED.employee_code,
			name_en = EXCLUDED.name_en,
			name_ar = EXCLUDED.name_ar,
			gender = EXCLUDED.gender,
			dob = EXCLUDED.dob,
			phone = EXCLUDED.phone,
			iqama_number = EXCLUDED.iqama_number,
			designation_id = EXCLUDED.designation_id,
			payroll_section_id = EXCLUDED.payroll_section_id,
			country_id = EXCLUDED.country_id,
			city_id = EXCLUDED.city_id,
			branch_id = EXCLUDED.branch_id,
			gosi_city_id = EXCLUDED.gosi_city_id,
			is_fixed = EXCLUDED.is_fixed,
			hours_per_day = EXCLUDED.hours_per_day,
			breakfast_allowance = EXCLUDED.breakfast_allowance,
			has_truck_house = EXCLUDED.has_truck_house,
			hourly_rate = EXCLUDED.hourly_rate,
			salary = EXCLUDED.salary,
			other_allowance = EXCLUDED.other_allowance,
			bank_name = EXCLUDED.bank_name,
			iban = EXCLUDED.iban,
			joining_date = EXCLUDED.joining_date,
			is_active = EXCLUDED.is_active,
			updated_at = NOW()
		RETURNING (xmax = 0) AS inserted
	`

	var inserted bool
	err := q.QueryRow(ctx, query,
		e.ID, e.EmployeeCode, e.NameEn, e.NameAr, e.Gender, e.DOB, e.Phone, e.IqamaNumber,
		e.DesignationID, e.PayrollSectionID, e.CountryID, e.CityID, e.BranchID, e.GosiCityID,
		e.IsFixed, e.HoursPerDay, e.BreakfastAllowance, e.HasTruckHouse,
		e.HourlyRate, e.Salary, e.OtherAllowance, e.BankName, e.IBAN, e.JoiningDate, e.IsActive,
	).Scan(&inserted)
	if err != nil {
		if isUniqueViolation(err) {
			return false, employee.ErrEmployeeCodeExists
		}
		return false, fmt.Errorf("failed to upsert employee %d: %w", e.ID, err)
	}
	return inserted, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id int) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by id: %w", err)
	}
	return emp, nil
}

// GetByCode implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByCode(ctx context.Context, code string) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE employee_code = $1`

	emp, err := scanEmployee(q.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee by code: %w", err)
	}
	return emp, nil
}

func employeeConditions(filter employee.EmployeeFilter) sq.And {
	where := sq.And{}
	if filter.Search != nil && *filter.Search != "" {
		like := "%" + *filter.Search + "%"
		where = append(where, sq.Or{
			sq.ILike{"name_en": like},
			sq.ILike{"name_ar": like},
			sq.ILike{"employee_code": like},
			sq.ILike{"iqama_number": like},
		})
	}
	if filter.BranchID != nil {
		where = append(where, sq.Eq{"branch_id": *filter.BranchID})
	}
	if filter.DesignationID != nil {
		where = append(where, sq.Eq{"designation_id": *filter.DesignationID})
	}
	if filter.IsFixed != nil {
		where = append(where, sq.Eq{"is_fixed": *filter.IsFixed})
	}
	if filter.IsActive != nil {
		where = append(where, sq.Eq{"is_active": *filter.IsActive})
	}
	return where
}

// List implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) List(ctx context.Context, filter employee.EmployeeFilter) ([]employee.Employee, int64, error) {
	q := GetQuerier(ctx, r.db)
	where := employeeConditions(filter)

	countQuery, countArgs, err := psql.Select("COUNT(*)").From("employees").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build employee count query: %w", err)
	}
	var total int64
	if err := q.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count employees: %w", err)
	}

	query, args, err := psql.Select(employeeColumns).
		From("employees").
		Where(where).
		OrderBy("id ASC").
		Limit(uint64(filter.Limit)).
		Offset(uint64((filter.Page - 1) * filter.Limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build employee list query: %w", err)
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return employees, total, nil
}

// ListIDs implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListIDs(ctx context.Context) ([]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT id FROM employees ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee ids: %w", err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int])
	if err != nil {
		return nil, fmt.Errorf("failed to scan employee ids: %w", err)
	}
	return ids, nil
}

// ListCodes implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) ListCodes(ctx context.Context) (map[string]int, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT employee_code, id FROM employees`)
	if err != nil {
		return nil, fmt.Errorf("failed to list employee codes: %w", err)
	}
	defer rows.Close()

	codes := make(map[string]int)
	for rows.Next() {
		var code string
		var id int
		if err := rows.Scan(&code, &id); err != nil {
			return nil, fmt.Errorf("failed to scan employee code: %w", err)
		}
		codes[code] = id
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return codes, nil
}

// SyncIDSequence implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) SyncIDSequence(ctx context.Context) error {
	return syncSequence(ctx, GetQuerier(ctx, r.db), "employees")
}
