package common

import "math"

// Apportion splits a budget between two lists proportionally to their sizes.
// It returns the two shares, which always sum to exactly budget. When both
// sizes are positive, neither share is rounded down to zero; the budget must
// therefore be at least 2 whenever both lists are non-empty.
func Apportion(budget, sizeA, sizeB int) (shareA, shareB int) {
	total := sizeA + sizeB

	if sizeA == 0 {
		shareA = 0
	} else if sizeB == 0 {
		shareA = budget
	} else {
		shareA = int(math.Round(float64(sizeA) * float64(budget) / float64(total)))
		shareA = clamp(shareA, 1, budget-1)
	}

	shareB = budget - shareA

	if shareA < 0 || shareB < 0 {
		Invariantf("apportion: negative share (budget=%d a=%d b=%d)", budget, sizeA, sizeB)
	}

	return shareA, shareB
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
