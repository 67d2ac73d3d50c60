package importer

import (
	"slices"
	"sort"

	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/payroll"
	"github.com/bakunitedcoitsolutions/bak-timesheet-web-sub001/internal/domain/timesheet"
)

// EmployeeTimesheets is one employee's timesheets in date order.
type EmployeeTimesheets struct {
	EmployeeID int
	Timesheets []timesheet.Timesheet
}

// GroupTimesheets partitions timesheets by employee, ordered by employee ID.
// Within a group, timesheets are stably sorted by date so rows sharing a
// date keep their input order.
func GroupTimesheets(records []timesheet.Timesheet) []EmployeeTimesheets {
	byEmployee := make(map[int][]timesheet.Timesheet)
	for _, ts := range records {
		byEmployee[ts.EmployeeID] = append(byEmployee[ts.EmployeeID], ts)
	}

	ids := make([]int, 0, len(byEmployee))
	for id := range byEmployee {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	groups := make([]EmployeeTimesheets, 0, len(ids))
	for _, id := range ids {
		list := byEmployee[id]
		sort.SliceStable(list, func(i, j int) bool {
			return list[i].Date.Before(list[j].Date)
		})
		groups = append(groups, EmployeeTimesheets{EmployeeID: id, Timesheets: list})
	}
	return groups
}

// AttachTotals sets each summary's totals to the sum of the details in its
// period. An unscoped summary takes every detail of its month; a branch
// summary only the details of that branch.
func AttachTotals(summaries []payroll.Summary, details []payroll.Detail) []payroll.Summary {
	byMonth := make(map[[2]int][]payroll.Detail)
	for _, d := range details {
		k := [2]int{d.PayrollYear, d.PayrollMonth}
		byMonth[k] = append(byMonth[k], d)
	}

	out := make([]payroll.Summary, len(summaries))
	for i, s := range summaries {
		period := payroll.Period{Month: s.PayrollMonth, Year: s.PayrollYear, BranchID: s.BranchID}

		var matched []payroll.Detail
		for _, d := range byMonth[[2]int{s.PayrollYear, s.PayrollMonth}] {
			if period.Matches(d) {
				matched = append(matched, d)
			}
		}

		s.Totals = payroll.SumDetails(matched)
		out[i] = s
	}
	return out
}
