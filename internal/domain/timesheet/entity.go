package timesheet

import "time"

// Timesheet is one employee's work on one date, split across at most two
// projects. Hour fields are whole hours; nil means no hours were booked.
type Timesheet struct {
	ID               int
	EmployeeID       int
	Date             time.Time
	Project1ID       *int
	Project1Hours    *int
	Project1Overtime *int
	Project2ID       *int
	Project2Hours    *int
	Project2Overtime *int
	TotalHours       *int
	Description      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// BookedHours sums every hour and overtime slot. It returns nil when
// nothing was booked.
func (t Timesheet) BookedHours() *int {
	total, booked := 0, false
	for _, v := range []*int{t.Project1Hours, t.Project1Overtime, t.Project2Hours, t.Project2Overtime} {
		if v != nil {
			total += *v
			booked = true
		}
	}
	if !booked {
		return nil
	}
	return &total
}

// Realistic date bounds for imported and uploaded timesheets.
const (
	MinYear = 2000
	MaxYear = 2030
)

// IsRealisticDate reports whether d falls within [MinYear, MaxYear].
func IsRealisticDate(d time.Time) bool {
	return d.Year() >= MinYear && d.Year() <= MaxYear
}
