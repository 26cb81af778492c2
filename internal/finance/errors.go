package finance

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidInput is returned for non-finite or out-of-range inputs
var ErrInvalidInput = errors.New("invalid input")

func finite(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s must be a finite number", ErrInvalidInput, name)
	}
	return nil
}

func nonNegative(name string, v float64) error {
	if err := finite(name, v); err != nil {
		return err
	}
	if v < 0 {
		return fmt.Errorf("%w: %s must not be negative, got %g", ErrInvalidInput, name, v)
	}
	return nil
}
