package analysis

import "fmt"

// PeriodValue is one selected period with its aggregate value.
type PeriodValue struct {
	Period string
	Value  float64
}

// NarrateTrend compares the first and last of two or more selected periods
// and emits a sentence stating increase, decrease, or no change with the
// percentage delta. A zero first-period baseline is guarded: no percentage
// is computed against it.
func NarrateTrend(periods []PeriodValue) (string, error) {
	if len(periods) < 2 {
		return "", fmt.Errorf("at least two periods required, got %d", len(periods))
	}

	first := periods[0]
	last := periods[len(periods)-1]
	delta := last.Value - first.Value

	switch {
	case delta == 0:
		return fmt.Sprintf("No change between %s and %s (%.2f).", first.Period, last.Period, first.Value), nil
	case first.Value == 0:
		if delta > 0 {
			return fmt.Sprintf("Increased from a zero baseline in %s to %.2f in %s.", first.Period, last.Value, last.Period), nil
		}
		return fmt.Sprintf("Decreased from a zero baseline in %s to %.2f in %s.", first.Period, last.Value, last.Period), nil
	case delta > 0:
		pct := delta / first.Value * 100
		return fmt.Sprintf("Increased by %.2f%% from %s (%.2f) to %s (%.2f).",
			pct, first.Period, first.Value, last.Period, last.Value), nil
	default:
		pct := -delta / first.Value * 100
		return fmt.Sprintf("Decreased by %.2f%% from %s (%.2f) to %s (%.2f).",
			pct, first.Period, first.Value, last.Period, last.Value), nil
	}
}
