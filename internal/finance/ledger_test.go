package finance

import (
	"math"
	"testing"
)

const tolerance = 1e-9

// testSchedule mirrors the production fee table for the lower grades.
func testSchedule() Schedule {
	return Schedule{
		"Grade 1": {DownPayment: 9500, MonthlyRate: 1275, BooksFee: 5230},
		"Grade 2": {DownPayment: 9500, MonthlyRate: 1350, BooksFee: 5480},
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestTotalFee(t *testing.T) {
	s := testSchedule()

	// 9500 + 5230 + 1275*10
	if got := s.TotalFee("Grade 1"); !almostEqual(got, 27480) {
		t.Errorf("TotalFee(Grade 1) = %v, want 27480", got)
	}
	if got := s.TotalFee("Grade 2"); !almostEqual(got, 28480) {
		t.Errorf("TotalFee(Grade 2) = %v, want 28480", got)
	}
}

func TestTotalFee_UnknownGradeDefaultsToZero(t *testing.T) {
	s := testSchedule()
	if got := s.TotalFee("Nonexistent Grade"); got != 0 {
		t.Errorf("TotalFee(unknown) = %v, want 0", got)
	}
}

func TestPaidToDate(t *testing.T) {
	rows := []LedgerRow{
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryDownPayment, Amount: 5000},
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryBooks, Amount: 1000},
		{StudentID: "2026-0001", SchoolYear: "2024-2025", Category: CategoryMonthlyTuition, Amount: 999},
		{StudentID: "2026-0002", SchoolYear: "2025-2026", Category: CategoryDownPayment, Amount: 777},
	}

	if got := PaidToDate("2026-0001", "2025-2026", rows); !almostEqual(got, 6000) {
		t.Errorf("PaidToDate = %v, want 6000", got)
	}
	if got := PaidToDate("2026-0001", "2023-2024", rows); got != 0 {
		t.Errorf("PaidToDate with no matching year = %v, want 0", got)
	}
	if got := PaidToDate("2026-0009", "2025-2026", nil); got != 0 {
		t.Errorf("PaidToDate on empty log = %v, want 0", got)
	}
}

func TestComputeFinancials_NegativeBalanceNotClamped(t *testing.T) {
	s := testSchedule()
	rows := []LedgerRow{
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryMonthlyTuition, Amount: 30000},
	}

	fin := ComputeFinancials(s, "Grade 1", "2026-0001", "2025-2026", rows)
	if !almostEqual(fin.Balance, -2520) {
		t.Errorf("Balance = %v, want -2520", fin.Balance)
	}
}

func TestAllocate_Priority(t *testing.T) {
	s := testSchedule()

	// Fresh student, no prior payments: dp=9500, books=5230.
	cases := []struct {
		amount float64
		want   map[string]float64
	}{
		{5000, map[string]float64{CategoryDownPayment: 5000}},
		{12000, map[string]float64{CategoryDownPayment: 9500, CategoryBooks: 2500}},
		{20000, map[string]float64{CategoryDownPayment: 9500, CategoryBooks: 5230, CategoryMonthlyTuition: 5270}},
	}

	for _, tc := range cases {
		got := Allocate(s, "Grade 1", tc.amount, nil, "2026-0001", "2025-2026")
		if len(got) != len(tc.want) {
			t.Errorf("Allocate(%v) = %v, want %v", tc.amount, got, tc.want)
			continue
		}
		for category, amount := range tc.want {
			if !almostEqual(got[category], amount) {
				t.Errorf("Allocate(%v)[%s] = %v, want %v", tc.amount, category, got[category], amount)
			}
		}
	}
}

func TestAllocate_Conservation(t *testing.T) {
	s := testSchedule()
	rows := []LedgerRow{
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryDownPayment, Amount: 4000},
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryBooks, Amount: 5230},
	}

	for _, amount := range []float64{0.01, 137.5, 5500, 9500, 27480, 100000} {
		allocation := Allocate(s, "Grade 1", amount, rows, "2026-0001", "2025-2026")
		var sum float64
		for _, a := range allocation {
			sum += a
		}
		if !almostEqual(sum, amount) {
			t.Errorf("allocation of %v sums to %v", amount, sum)
		}
	}
}

func TestAllocate_ZeroAmountIsEmpty(t *testing.T) {
	s := testSchedule()

	if got := Allocate(s, "Grade 1", 0, nil, "2026-0001", "2025-2026"); len(got) != 0 {
		t.Errorf("Allocate(0) = %v, want empty map", got)
	}
	if got := Allocate(s, "Nonexistent Grade", 0, nil, "2026-0001", "2025-2026"); len(got) != 0 {
		t.Errorf("Allocate(0, unknown grade) = %v, want empty map", got)
	}
}

func TestAllocate_MonthlyBucketHasNoCap(t *testing.T) {
	s := testSchedule()
	rows := []LedgerRow{
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryDownPayment, Amount: 9500},
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryBooks, Amount: 5230},
		// Already a full year of tuition on file.
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryMonthlyTuition, Amount: 12750},
	}

	got := Allocate(s, "Grade 1", 500000, rows, "2026-0001", "2025-2026")
	if len(got) != 1 || !almostEqual(got[CategoryMonthlyTuition], 500000) {
		t.Errorf("Allocate over a settled ledger = %v, want all under Monthly Tuition", got)
	}
}

func TestAllocate_UnknownGradePassThrough(t *testing.T) {
	s := testSchedule()

	got := Allocate(s, "Nonexistent Grade", 1000, nil, "2026-0001", "2025-2026")
	if len(got) != 1 || !almostEqual(got[CategoryUnallocated], 1000) {
		t.Errorf("Allocate(unknown grade) = %v, want {%s: 1000}", got, CategoryUnallocated)
	}
}

func TestAllocate_OverContributedBucketClampsToZero(t *testing.T) {
	s := testSchedule()
	// An external actor wrote more DP than was due.
	rows := []LedgerRow{
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: CategoryDownPayment, Amount: 12000},
	}

	got := Allocate(s, "Grade 1", 1000, rows, "2026-0001", "2025-2026")
	if _, ok := got[CategoryDownPayment]; ok {
		t.Errorf("over-contributed DP bucket received allocation: %v", got)
	}
	if !almostEqual(got[CategoryBooks], 1000) {
		t.Errorf("Allocate = %v, want Books to take the full amount", got)
	}
}

func TestAllocate_ExactLabelMatchIgnoresDriftedRows(t *testing.T) {
	s := testSchedule()
	// Drifted labels must not count toward the DP bucket's paid total.
	rows := []LedgerRow{
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: "dp", Amount: 9500},
		{StudentID: "2026-0001", SchoolYear: "2025-2026", Category: " DP", Amount: 9500},
	}

	got := Allocate(s, "Grade 1", 9500, rows, "2026-0001", "2025-2026")
	if !almostEqual(got[CategoryDownPayment], 9500) {
		t.Errorf("Allocate = %v, want full DP due despite drifted rows", got)
	}
}
