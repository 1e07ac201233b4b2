package utils

import (
	"fmt"
)

func IsIn(s string, arr []string) bool {
	for _, x := range arr {
		if s == x {
			return true
		}
	}
	return false
}

const (
	errNegativeFmt = "invalid %s: %d must not be negative"
	errRateFmt     = "invalid %s: %g must be zero (unlimited) or positive"
)

// ValidateNonNegative checks a size-like setting where 0 selects the default.
func ValidateNonNegative(name string, n int) error {
	if n < 0 {
		return fmt.Errorf(errNegativeFmt, name, n)
	}
	return nil
}

// ValidateRate checks a per-second rate where 0 means no limit.
func ValidateRate(name string, r float64) error {
	if r < 0 || r != r {
		return fmt.Errorf(errRateFmt, name, r)
	}
	return nil
}
