package finbook

import "fmt"

// CostPolicy defines how average cost is maintained when a partial sell
// leaves a lot open.
type CostPolicy int

const (
	// BlendSalePrice blends the sale price into the weighted average on a
	// partial sell, reproducing the behavior of the original tracker.
	// The negative share term pulls the average toward the sale price.
	BlendSalePrice CostPolicy = iota
	// PreserveAverage is the textbook rule: selling never changes the
	// average cost of the remaining shares.
	PreserveAverage
)

func (p CostPolicy) String() string {
	switch p {
	case BlendSalePrice:
		return "blend"
	case PreserveAverage:
		return "preserve"
	default:
		return "unknown"
	}
}

// ParseCostPolicy parses a string into a CostPolicy.
func ParseCostPolicy(s string) (CostPolicy, error) {
	switch s {
	case "blend":
		return BlendSalePrice, nil
	case "preserve":
		return PreserveAverage, nil
	default:
		return 0, fmt.Errorf("unknown cost policy: %q", s)
	}
}
