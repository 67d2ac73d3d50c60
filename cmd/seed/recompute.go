package main

import (
	"fmt"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	payrollService "github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/service/payroll"
	"github.com/spf13/cobra"
)

func newRecomputeCmd(root *rootOptions) *cobra.Command {
	var req payroll.UpdateMonthlyValuesRequest
	var branch int

	cmd := &cobra.Command{
		Use:   "recompute",
		Short: "Re-sum a period's payroll details into its summary",
		Args:  cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("branch") {
				req.BranchID = &branch
			}
			return req.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := setup(ctx, *root, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			svc := payrollService.NewPayrollService(a.stores.Tx, a.stores.Payroll, a.logger)
			summary, err := svc.UpdateMonthlyPayrollValues(ctx, req)
			if err != nil {
				return err
			}

			fmt.Fprintf(a.out, "payroll %d (%02d/%d) %s\n", summary.ID, summary.PayrollMonth, summary.PayrollYear, summary.PayrollStatus)
			fmt.Fprintf(a.out, "  total salary       %s\n", summary.TotalSalary.StringFixed(2))
			fmt.Fprintf(a.out, "  total deduction    %s\n", summary.TotalDeduction.StringFixed(2))
			fmt.Fprintf(a.out, "  net salary payable %s\n", summary.TotalNetSalaryPayable.StringFixed(2))
			return nil
		},
	}

	cmd.Flags().IntVar(&req.PayrollYear, "year", 0, "Payroll year")
	cmd.Flags().IntVar(&req.PayrollMonth, "month", 0, "Payroll month (1-12)")
	cmd.Flags().IntVar(&branch, "branch", 0, "Restrict to one branch")
	cmd.Flags().BoolVar(&req.IsPosted, "posted", false, "Mark the summary as posted")
	_ = cmd.MarkFlagRequired("year")
	_ = cmd.MarkFlagRequired("month")

	return cmd
}
