// Package finance implements the fee ledger calculator: total assessed
// fees per grade, paid-to-date aggregation and the priority allocation of
// incoming payments. It operates purely on in-memory snapshots; all I/O
// belongs to the handlers that call it.
package finance

// TuitionMonths is the number of monthly tuition installments in one
// school year.
const TuitionMonths = 10

// Fee categories. These labels are written verbatim into payment rows and
// matched string-exact when aggregating, so they are constants rather than
// free text.
const (
	CategoryDownPayment    = "DP"
	CategoryBooks          = "Books"
	CategoryMonthlyTuition = "Monthly Tuition"

	// CategoryUnallocated is the pass-through label used when a grade has
	// no fee schedule entry and a payment cannot be split into buckets.
	CategoryUnallocated = "Tuition Payment"
)

// ScheduleEntry is the assessed fee structure for one grade level.
type ScheduleEntry struct {
	DownPayment float64
	MonthlyRate float64
	BooksFee    float64
}

// Schedule maps a grade level to its fee structure.
type Schedule map[string]ScheduleEntry

// TotalFee returns the total assessed fee for a grade:
// down payment + books + monthly rate over ten months.
// A grade with no schedule entry totals zero; that is a configuration gap,
// not an error.
func (s Schedule) TotalFee(grade string) float64 {
	entry, ok := s[grade]
	if !ok {
		return 0
	}
	return entry.DownPayment + entry.BooksFee + entry.MonthlyRate*TuitionMonths
}
