package importer

// EmployeeSet is the set of employee IDs known when a run starts.
type EmployeeSet map[int]struct{}

func NewEmployeeSet(ids []int) EmployeeSet {
	s := make(EmployeeSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func (s EmployeeSet) Has(id int) bool {
	_, ok := s[id]
	return ok
}

// FilterKnownEmployees splits records into those whose employee is in known
// and those that reference a missing employee. Every record is visited and
// input order is kept in both outputs.
func FilterKnownEmployees[T any](records []T, known EmployeeSet, employeeID func(T) int) (accepted, missing []T) {
	accepted = make([]T, 0, len(records))
	for _, rec := range records {
		if known.Has(employeeID(rec)) {
			accepted = append(accepted, rec)
		} else {
			missing = append(missing, rec)
		}
	}
	return accepted, missing
}
