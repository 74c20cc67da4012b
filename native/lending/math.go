package lending

import "math/bits"

// secondsPerYear is the annualization base for simple interest (365 days).
const secondsPerYear = 31_536_000

func checkedAdd(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

func checkedSub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, ErrMathOverflow
	}
	return diff, nil
}

func checkedMul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, ErrMathOverflow
	}
	return lo, nil
}

func checkedAddInt64(a, b int64) (int64, error) {
	sum := a + b
	if (b > 0 && sum < a) || (b < 0 && sum > a) {
		return 0, ErrMathOverflow
	}
	return sum, nil
}

// utilization returns floor(totalLoans * 100 / totalLiquidity), or zero for an
// empty pool. The product is carried in 128 bits so the full uint64 loan
// domain divides without overflow; a quotient that would not fit uint64
// saturates instead of panicking in bits.Div64.
func utilization(totalLoans, totalLiquidity uint64) uint64 {
	if totalLiquidity == 0 {
		return 0
	}
	hi, lo := bits.Mul64(totalLoans, 100)
	if hi >= totalLiquidity {
		return ^uint64(0)
	}
	quo, _ := bits.Div64(hi, lo, totalLiquidity)
	return quo
}

// interestDue computes simple non-compounding interest:
// floor(principal * ratePercent * elapsedSeconds / (secondsPerYear * 100)).
// Intermediate products are checked; an overflow aborts the repayment rather
// than silently truncating the amount due.
func interestDue(principal, ratePercent uint64, elapsedSeconds int64) (uint64, error) {
	if elapsedSeconds < 0 {
		elapsedSeconds = 0
	}
	scaled, err := checkedMul(principal, ratePercent)
	if err != nil {
		return 0, err
	}
	scaled, err = checkedMul(scaled, uint64(elapsedSeconds))
	if err != nil {
		return 0, err
	}
	return scaled / (secondsPerYear * 100), nil
}
