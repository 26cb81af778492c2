// Package finance holds the pure forecasting arithmetic behind the dashboard:
// runway, breakeven, and the cash-flow and profitability projections.
//
// Every function is a stateless computation over its arguments and is safe to
// call concurrently. Malformed numeric input fails with ErrInvalidInput.
// Division by zero never escapes: it is mapped to 0 or to an unbounded
// models.Months according to each function's contract.
package finance
