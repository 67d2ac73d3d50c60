package importer

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Lookups holds the static tables the transformers consult.
type Lookups struct {
	EightHourDesignations map[int]struct{}
	BreakfastDesignations map[int]struct{}
	TruckHouseSections    map[int]struct{}
	BankNames             map[string]string
	PaymentMethods        map[int]int
	DefaultPaymentMethod  int
}

// Branch and GOSI city assignment by truck house membership.
const (
	truckHouseBranchID   = 2
	truckHouseGosiCityID = 3
	defaultBranchID      = 1
	defaultGosiCityID    = 1
)

func DefaultLookups() *Lookups {
	return &Lookups{
		EightHourDesignations: setOf(1, 2, 3, 4, 5, 6, 25, 26, 27),
		BreakfastDesignations: setOf(7, 8, 9, 10, 11, 12, 13, 14),
		TruckHouseSections:    setOf(6, 15),
		BankNames: map[string]string{
			"SABB": "Saudi British Bank",
			"RJHI": "Al Rajhi Bank",
			"ALBI": "Bank Albilad",
			"ARNB": "Arab National Bank",
			"BJAZ": "Bank AlJazira",
			"BSFR": "Banque Saudi Fransi",
			"INMA": "Alinma Bank",
			"NCBK": "Saudi National Bank",
			"RIBL": "Riyad Bank",
			"SIBC": "Saudi Investment Bank",
		},
		PaymentMethods:       map[int]int{52: 4, 53: 5, 51: 1},
		DefaultPaymentMethod: 1,
	}
}

type lookupsFile struct {
	EightHourDesignations []int             `yaml:"eight_hour_designations"`
	BreakfastDesignations []int             `yaml:"breakfast_designations"`
	TruckHouseSections    []int             `yaml:"truck_house_sections"`
	BankNames             map[string]string `yaml:"bank_names"`
}

// LoadLookups starts from DefaultLookups and applies the overrides in the
// YAML file at path. Non-empty lists replace the defaults; bank names are
// merged. An empty path returns the defaults.
func LoadLookups(path string) (*Lookups, error) {
	l := DefaultLookups()
	if path == "" {
		return l, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lookups file: %w", err)
	}

	var f lookupsFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lookups file %s: %w", path, err)
	}

	if len(f.EightHourDesignations) > 0 {
		l.EightHourDesignations = setOf(f.EightHourDesignations...)
	}
	if len(f.BreakfastDesignations) > 0 {
		l.BreakfastDesignations = setOf(f.BreakfastDesignations...)
	}
	if len(f.TruckHouseSections) > 0 {
		l.TruckHouseSections = setOf(f.TruckHouseSections...)
	}
	for code, name := range f.BankNames {
		l.BankNames[code] = name
	}

	return l, nil
}

// HoursPerDay is 8 for designations in the 8-hour set, otherwise 10.
func (l *Lookups) HoursPerDay(designationID *int) int {
	if designationID != nil && contains(l.EightHourDesignations, *designationID) {
		return 8
	}
	return 10
}

func (l *Lookups) BreakfastEligible(designationID *int) bool {
	return designationID != nil && contains(l.BreakfastDesignations, *designationID)
}

func (l *Lookups) HasTruckHouse(payrollSectionID *int) bool {
	return payrollSectionID != nil && contains(l.TruckHouseSections, *payrollSectionID)
}

// BankName resolves a bank code. Unknown codes pass through unchanged.
func (l *Lookups) BankName(code *string) *string {
	if code == nil {
		return nil
	}
	if name, ok := l.BankNames[*code]; ok {
		return &name
	}
	return code
}

// PaymentMethod remaps a historical project-based payment code.
func (l *Lookups) PaymentMethod(raw *int) int {
	if raw != nil {
		if id, ok := l.PaymentMethods[*raw]; ok {
			return id
		}
	}
	return l.DefaultPaymentMethod
}

func setOf(ids ...int) map[int]struct{} {
	s := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

func contains(s map[int]struct{}, id int) bool {
	_, ok := s[id]
	return ok
}
