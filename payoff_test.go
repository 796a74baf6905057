package finbook

import "testing"

func TestPayoffEstimate(t *testing.T) {
	testCases := []struct {
		name       string
		balance    Money
		payment    Money
		rate       float64
		wantMonths int
		wantOK     bool
	}{
		{"no interest", usd(1000), usd(100), 0, 10, true},
		{"no interest rounds up", usd(1050), usd(100), 0, 11, true},
		{"already clear", usd(0), usd(100), 0.2, 0, true},
		{"zero payment", usd(1000), usd(0), 0, 0, false},
		{"interest outruns payment", usd(10000), usd(50), 0.24, 0, false},
		{"typical card", usd(5000), usd(250), 0.24, 26, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			months, ok := PayoffEstimate(tc.balance, tc.payment, tc.rate)
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if ok && months != tc.wantMonths {
				t.Errorf("months = %d, want %d", months, tc.wantMonths)
			}
		})
	}
}
