package main

import (
	"context"
	"fmt"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/importer"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/spf13/cobra"
)

type importCommand struct {
	entity string
	short  string
	run    func(im *importer.Importer, ctx context.Context, rows []source.Row) (*importer.Report, error)
}

var importCommands = []importCommand{
	{importer.EntityEmployees, "Import employees keyed by their legacy ID", (*importer.Importer).ImportEmployees},
	{importer.EntityLoans, "Import loan ledger entries", (*importer.Importer).ImportLoans},
	{importer.EntityTrafficChallans, "Import traffic challan ledger entries", (*importer.Importer).ImportTrafficChallans},
	{importer.EntityTimesheets, "Import daily timesheets, one transaction per employee", (*importer.Importer).ImportTimesheets},
	{importer.EntityPayrollDetails, "Import per-employee payroll details", (*importer.Importer).ImportPayrollDetails},
}

func newImportCmd(root *rootOptions, def importCommand) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   def.entity,
		Short: def.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := source.ReadFile(input)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := setup(ctx, *root, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			im, err := a.importer()
			if err != nil {
				return err
			}
			report, err := def.run(im, ctx, rows)
			if err != nil {
				return fmt.Errorf("%s import: %w", def.entity, err)
			}
			report.Print(a.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Source file (.csv, .json or .xlsx)")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func newPayrollSummariesCmd(root *rootOptions) *cobra.Command {
	var input, details string

	cmd := &cobra.Command{
		Use:   importer.EntityPayrollSummaries,
		Short: "Import payroll summaries, deriving their totals from the details file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			summaryRows, err := source.ReadFile(input)
			if err != nil {
				return err
			}
			detailRows, err := source.ReadFile(details)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := setup(ctx, *root, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			defer a.Close()

			im, err := a.importer()
			if err != nil {
				return err
			}
			report, err := im.ImportPayrollSummaries(ctx, summaryRows, detailRows)
			if err != nil {
				return fmt.Errorf("%s import: %w", importer.EntityPayrollSummaries, err)
			}
			report.Print(a.out)
			return nil
		},
	}

	cmd.Flags().StringVar(&input, "input", "", "Payroll summary source file")
	cmd.Flags().StringVar(&details, "details", "", "Payroll detail source file the totals are summed from")
	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("details")

	return cmd
}
