package models

import (
	"database/sql/driver"
	"fmt"
	"math"
	"strconv"
)

// Months is a month count where +Inf means unbounded.
// Infinity is encoded as JSON null and SQL NULL.
type Months float64

// Unbounded returns a Months value representing no limit.
func Unbounded() Months { return Months(math.Inf(1)) }

// IsUnbounded reports whether m is +Inf.
func (m Months) IsUnbounded() bool { return math.IsInf(float64(m), 1) }

func (m Months) MarshalJSON() ([]byte, error) {
	if m.IsUnbounded() || math.IsNaN(float64(m)) {
		return []byte("null"), nil
	}
	return []byte(strconv.FormatFloat(float64(m), 'f', -1, 64)), nil
}

func (m *Months) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Unbounded()
		return nil
	}
	f, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("invalid months value %q: %w", data, err)
	}
	*m = Months(f)
	return nil
}

// Value implements driver.Valuer.
func (m Months) Value() (driver.Value, error) {
	if m.IsUnbounded() {
		return nil, nil
	}
	return float64(m), nil
}

// Scan implements sql.Scanner.
func (m *Months) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*m = Unbounded()
	case float64:
		*m = Months(v)
	case int64:
		*m = Months(v)
	case []byte:
		f, err := strconv.ParseFloat(string(v), 64)
		if err != nil {
			return fmt.Errorf("scan months: %w", err)
		}
		*m = Months(f)
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("scan months: %w", err)
		}
		*m = Months(f)
	default:
		return fmt.Errorf("scan months: unsupported type %T", src)
	}
	return nil
}
