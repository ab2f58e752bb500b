package finance

// LedgerRow is the slice of a payment row the calculator needs. Handlers
// project their storage rows into this shape before calling in.
type LedgerRow struct {
	StudentID  string
	SchoolYear string
	Category   string
	Amount     float64
}

// Financials is the per-student money summary for one school year.
type Financials struct {
	TotalFee float64 `json:"totalFee"`
	Paid     float64 `json:"paid"`
	Balance  float64 `json:"balance"`
}

// PaidToDate sums every payment the student has made within the school
// year. Matching is exact on both keys; no rows means zero.
func PaidToDate(studentID, schoolYear string, rows []LedgerRow) float64 {
	var paid float64
	for _, r := range rows {
		if r.StudentID == studentID && r.SchoolYear == schoolYear {
			paid += r.Amount
		}
	}
	return paid
}

// paidInCategory sums the student's payments within the school year whose
// category label matches exactly. Historical rows with drifted labels
// (case, whitespace) are deliberately not matched.
func paidInCategory(studentID, schoolYear, category string, rows []LedgerRow) float64 {
	var paid float64
	for _, r := range rows {
		if r.StudentID == studentID && r.SchoolYear == schoolYear && r.Category == category {
			paid += r.Amount
		}
	}
	return paid
}

// ComputeFinancials returns total assessed fee, paid to date and balance.
// Balance goes negative on overpayment and is reported as-is.
func ComputeFinancials(s Schedule, grade, studentID, schoolYear string, rows []LedgerRow) Financials {
	total := s.TotalFee(grade)
	paid := PaidToDate(studentID, schoolYear, rows)
	return Financials{
		TotalFee: total,
		Paid:     paid,
		Balance:  total - paid,
	}
}

// Allocate splits an incoming payment amount across the fee categories in
// fixed priority order: Down Payment, then Books, then Monthly Tuition.
// Down Payment and Books are capped at what is still due on them for this
// student and school year; Monthly Tuition absorbs everything left with no
// upper cap. The allocated amounts always sum to the input amount.
//
// A zero amount allocates nothing and returns an empty map — callers must
// not post zero-amount rows. A grade without a schedule entry cannot be
// split, so the whole amount passes through under CategoryUnallocated.
func Allocate(s Schedule, grade string, amount float64, rows []LedgerRow, studentID, schoolYear string) map[string]float64 {
	allocation := make(map[string]float64)
	if amount <= 0 {
		return allocation
	}

	entry, ok := s[grade]
	if !ok {
		allocation[CategoryUnallocated] = amount
		return allocation
	}

	remaining := amount
	cappedBuckets := []struct {
		label     string
		scheduled float64
	}{
		{CategoryDownPayment, entry.DownPayment},
		{CategoryBooks, entry.BooksFee},
	}

	for _, bucket := range cappedBuckets {
		if remaining <= 0 {
			break
		}
		due := bucket.scheduled - paidInCategory(studentID, schoolYear, bucket.label, rows)
		if due < 0 {
			due = 0 // bucket already over-contributed; never allocate negative
		}
		take := due
		if remaining < take {
			take = remaining
		}
		if take > 0 {
			allocation[bucket.label] = take
			remaining -= take
		}
	}

	// Monthly tuition is the uncapped catch-all: overpayment past the
	// scheduled ten months still lands here.
	if remaining > 0 {
		allocation[CategoryMonthlyTuition] = remaining
	}

	return allocation
}

// AllocationOrder is the posting order for allocation entries, so that a
// multi-row receipt is always written DP first and Monthly Tuition last.
var AllocationOrder = []string{
	CategoryDownPayment,
	CategoryBooks,
	CategoryMonthlyTuition,
	CategoryUnallocated,
}
