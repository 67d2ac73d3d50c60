package payroll

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/database"
)

type PayrollServiceImpl struct {
	tx          database.Transactor
	payrollRepo payroll.PayrollRepository
	logger      *slog.Logger
}

func NewPayrollService(
	tx database.Transactor,
	payrollRepo payroll.PayrollRepository,
	logger *slog.Logger,
) payroll.PayrollService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PayrollServiceImpl{
		tx:          tx,
		payrollRepo: payrollRepo,
		logger:      logger,
	}
}

// UpdateMonthlyPayrollValues implements payroll.PayrollService. The summary row
// is locked for the whole read-sum-write sequence so concurrent recomputes
// of one period serialize.
func (s *PayrollServiceImpl) UpdateMonthlyPayrollValues(ctx context.Context, req payroll.UpdateMonthlyValuesRequest) (payroll.SummaryResponse, error) {
	if err := req.Validate(); err != nil {
		return payroll.SummaryResponse{}, err
	}
	period := req.Period()

	var updated payroll.Summary
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		summary, err := s.payrollRepo.GetSummaryForUpdate(ctx, period)
		if err != nil {
			return err
		}

		// A branch summary found without a branch argument sums its own branch.
		scope := period
		if summary.BranchID != nil {
			scope.BranchID = summary.BranchID
		}
		details, err := s.payrollRepo.ListDetailsByPeriod(ctx, scope)
		if err != nil {
			return err
		}
		totals := payroll.SumDetails(details)

		// Posting never reverts.
		statusID := summary.PayrollStatusID
		if req.IsPosted {
			statusID = payroll.StatusPosted
		}

		if err := s.payrollRepo.UpdateSummaryTotals(ctx, summary.ID, totals, statusID); err != nil {
			return err
		}

		summary.Totals = totals
		summary.PayrollStatusID = statusID
		updated = summary

		s.logger.Info("payroll summary recomputed",
			slog.Int("summary_id", summary.ID),
			slog.Int("payroll_year", period.Year),
			slog.Int("payroll_month", period.Month),
			slog.Int("details", len(details)),
			slog.String("status", payroll.StatusName(statusID)),
		)
		return nil
	})
	if err != nil {
		return payroll.SummaryResponse{}, err
	}

	return toSummaryResponse(updated), nil
}

// ListSummaries implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListSummaries(ctx context.Context, filter payroll.SummaryFilter) (payroll.ListSummaryResponse, error) {
	if err := filter.Validate(); err != nil {
		return payroll.ListSummaryResponse{}, err
	}

	summaries, total, err := s.payrollRepo.ListSummaries(ctx, filter)
	if err != nil {
		return payroll.ListSummaryResponse{}, fmt.Errorf("failed to list payroll summaries: %w", err)
	}

	responses := make([]payroll.SummaryResponse, len(summaries))
	for i, summary := range summaries {
		responses[i] = toSummaryResponse(summary)
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	showing := "0 of 0"
	if total > 0 {
		from := (filter.Page-1)*filter.Limit + 1
		to := min(filter.Page*filter.Limit, int(total))
		showing = fmt.Sprintf("%d-%d of %d", from, to, total)
	}

	return payroll.ListSummaryResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
		Showing:    showing,
		Summaries:  responses,
	}, nil
}

// GetSummary implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetSummary(ctx context.Context, id int) (payroll.SummaryResponse, error) {
	summary, err := s.payrollRepo.GetSummaryByID(ctx, id)
	if err != nil {
		return payroll.SummaryResponse{}, err
	}
	return toSummaryResponse(summary), nil
}

// ListDetails implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListDetails(ctx context.Context, summaryID int) ([]payroll.DetailResponse, error) {
	if _, err := s.payrollRepo.GetSummaryByID(ctx, summaryID); err != nil {
		return nil, err
	}

	details, err := s.payrollRepo.ListDetailsBySummary(ctx, summaryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payroll details: %w", err)
	}

	responses := make([]payroll.DetailResponse, len(details))
	for i, d := range details {
		responses[i] = toDetailResponse(d)
	}
	return responses, nil
}

func toSummaryResponse(s payroll.Summary) payroll.SummaryResponse {
	return payroll.SummaryResponse{
		ID:              s.ID,
		PayrollMonth:    s.PayrollMonth,
		PayrollYear:     s.PayrollYear,
		BranchID:        s.BranchID,
		PayrollStatusID: s.PayrollStatusID,
		PayrollStatus:   payroll.StatusName(s.PayrollStatusID),
		Remarks:         s.Remarks,
		TotalsResponse: payroll.TotalsResponse{
			TotalSalary:           s.TotalSalary,
			TotalPreviousAdvance:  s.TotalPreviousAdvance,
			TotalCurrentAdvance:   s.TotalCurrentAdvance,
			TotalDeduction:        s.TotalDeduction,
			TotalNetLoan:          s.TotalNetLoan,
			TotalNetSalaryPayable: s.TotalNetSalaryPayable,
			TotalCardSalary:       s.TotalCardSalary,
			TotalCashSalary:       s.TotalCashSalary,
		},
	}
}

func toDetailResponse(d payroll.Detail) payroll.DetailResponse {
	return payroll.DetailResponse{
		ID:                 d.ID,
		PayrollID:          d.PayrollID,
		EmployeeID:         d.EmployeeID,
		PayrollMonth:       d.PayrollMonth,
		PayrollYear:        d.PayrollYear,
		BranchID:           d.BranchID,
		WorkDays:           d.WorkDays,
		WorkHours:          d.WorkHours,
		HourlyRate:         d.HourlyRate,
		Salary:             d.Salary,
		OvertimeHours:      d.OvertimeHours,
		OvertimeAmount:     d.OvertimeAmount,
		BreakfastAllowance: d.BreakfastAllowance,
		OtherAllowances:    d.OtherAllowances,
		TotalAllowances:    d.TotalAllowances,
		PreviousLoan:       d.PreviousLoan,
		CurrentLoan:        d.CurrentLoan,
		DeductionLoan:      d.DeductionLoan,
		NetLoan:            d.NetLoan,
		PreviousChallan:    d.PreviousChallan,
		CurrentChallan:     d.CurrentChallan,
		DeductionChallan:   d.DeductionChallan,
		NetChallan:         d.NetChallan,
		NetSalaryPayable:   d.NetSalaryPayable,
		CardSalary:         d.CardSalary,
		CashSalary:         d.CashSalary,
		PaymentMethodID:    d.PaymentMethodID,
		Remarks:            d.Remarks,
	}
}
