package handlers

import "testing"

func TestAmountInWords(t *testing.T) {
	cases := []struct {
		amount float64
		want   string
	}{
		{5, "five pesos and 00/100"},
		{5.25, "five pesos and 25/100"},
		{100.5, "one hundred pesos and 50/100"},
		// Rounded centavos carry into pesos instead of printing 100/100.
		{5.999, "six pesos and 00/100"},
	}
	for _, tc := range cases {
		if got := amountInWords(tc.amount); got != tc.want {
			t.Errorf("amountInWords(%v) = %q, want %q", tc.amount, got, tc.want)
		}
	}
}
