package finbook

import "math"

// PayoffEstimate estimates how many monthly payments clear a debt balance
// at the given annual interest rate. ok is false when the debt can never
// be cleared (payment not positive, or interest outruns the payment) or
// when the math degenerates to a non-finite value; callers render that as
// "Never" instead of garbage.
func PayoffEstimate(balance, monthlyPayment Money, annualRate float64) (months int, ok bool) {
	b := balance.AsFloat()
	p := monthlyPayment.AsFloat()
	if b <= 0 {
		return 0, true
	}
	if p <= 0 {
		return 0, false
	}
	if annualRate == 0 {
		return int(math.Ceil(b / p)), true
	}
	r := annualRate / 12
	arg := 1 - r*b/p
	if arg <= 0 {
		return 0, false
	}
	n := -math.Log(arg) / math.Log(1+r)
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return int(math.Ceil(n)), true
}
