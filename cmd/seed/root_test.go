package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/importer"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/source"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	return cmd.Execute()
}

func TestRootCmd_Subcommands(t *testing.T) {
	cmd := newRootCmd()

	var names []string
	for _, sub := range cmd.Commands() {
		names = append(names, sub.Name())
	}
	for _, want := range []string{
		importer.EntityEmployees,
		importer.EntityLoans,
		importer.EntityTrafficChallans,
		importer.EntityTimesheets,
		importer.EntityPayrollDetails,
		importer.EntityPayrollSummaries,
		"recompute",
	} {
		assert.Contains(t, names, want)
	}
}

func TestImportCmd_RequiresInput(t *testing.T) {
	err := execute(t, "loans")
	assert.ErrorContains(t, err, `"input" not set`)

	err = execute(t, "payroll-summaries", "--input", "summaries.csv")
	assert.ErrorContains(t, err, `"details" not set`)
}

func TestImportCmd_SourceErrorsBeforeConnecting(t *testing.T) {
	dir := t.TempDir()

	err := execute(t, "employees", "--input", filepath.Join(dir, "missing.csv"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	pdf := filepath.Join(dir, "employees.pdf")
	require.NoError(t, os.WriteFile(pdf, []byte("%PDF"), 0o644))
	err = execute(t, "employees", "--input", pdf)
	assert.ErrorIs(t, err, source.ErrUnsupportedFormat)
}

func TestRecomputeCmd_ValidatesPeriod(t *testing.T) {
	err := execute(t, "recompute", "--year", "2024")
	assert.ErrorContains(t, err, `"month" not set`)

	err = execute(t, "recompute", "--year", "2024", "--month", "13")
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Contains(t, verrs.ToMap(), "payroll_month")
}
