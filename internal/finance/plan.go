package finance

import (
	"fmt"

	"github.com/Knetic/govaluate"
)

// InstallmentSpec describes one installment of a payment plan: the month
// it falls due and a formula for its amount. Formulas may reference the
// variables "total", "monthly" and "balance".
type InstallmentSpec struct {
	Month   string `json:"month"`
	Formula string `json:"formula"`
}

// Installment is one evaluated line of a payment plan.
type Installment struct {
	Month  string  `json:"month"`
	Amount float64 `json:"amount"`
}

// SchoolYearMonths are the ten tuition months of a school year, in order.
var SchoolYearMonths = []string{
	"June", "July", "August", "September", "October",
	"November", "December", "January", "February", "March",
}

// DefaultPlan is an equal split of the monthly rate across the ten
// tuition months.
func DefaultPlan() []InstallmentSpec {
	specs := make([]InstallmentSpec, 0, len(SchoolYearMonths))
	for _, m := range SchoolYearMonths {
		specs = append(specs, InstallmentSpec{Month: m, Formula: "monthly"})
	}
	return specs
}

// EvaluatePlan computes the amount of each installment by evaluating its
// formula against the student's current figures.
func EvaluatePlan(specs []InstallmentSpec, fin Financials, monthlyRate float64) ([]Installment, error) {
	parameters := map[string]interface{}{
		"total":   fin.TotalFee,
		"monthly": monthlyRate,
		"balance": fin.Balance,
	}

	plan := make([]Installment, 0, len(specs))
	for _, spec := range specs {
		expression, err := govaluate.NewEvaluableExpression(spec.Formula)
		if err != nil {
			return nil, fmt.Errorf("invalid formula %q: %w", spec.Formula, err)
		}

		result, err := expression.Evaluate(parameters)
		if err != nil {
			return nil, fmt.Errorf("cannot evaluate formula %q: %w", spec.Formula, err)
		}

		amount, ok := result.(float64)
		if !ok {
			return nil, fmt.Errorf("formula %q did not produce a number", spec.Formula)
		}

		plan = append(plan, Installment{Month: spec.Month, Amount: amount})
	}
	return plan, nil
}
