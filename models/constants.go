package models

// Participant statuses inside a match document
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusDeclined  = "declined"
)

// Academic years selectable on a profile
const (
	YearFreshman  = "Freshman"
	YearSophomore = "Sophomore"
	YearJunior    = "Junior"
	YearSenior    = "Senior"
	YearMaster    = "Master"
	YearPhD       = "PhD"
)

// Years lists the valid year values in display order.
var Years = []string{YearFreshman, YearSophomore, YearJunior, YearSenior, YearMaster, YearPhD}

// IsValidYear reports whether y is one of the known year values.
func IsValidYear(y string) bool {
	for _, v := range Years {
		if v == y {
			return true
		}
	}
	return false
}
