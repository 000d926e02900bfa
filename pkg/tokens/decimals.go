package tokens

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrEmptyDecimals is returned when decimals are present but an empty string.
var ErrEmptyDecimals = fmt.Errorf("decimals is an empty string")

// Decimals is a non-negative token precision. Sources disagree on whether it is
// a JSON number or a numeric string; both decode into Decimals.
type Decimals uint

// NewDecimals returns a pointer to d, for building optional fields.
func NewDecimals(d uint) *Decimals {
	v := Decimals(d)
	return &v
}

// UnmarshalJSON accepts a non-negative integer or a string holding one.
func (d *Decimals) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return d.set(v)
}

// UnmarshalYAML accepts the same shapes as UnmarshalJSON.
func (d *Decimals) UnmarshalYAML(unmarshal func(any) error) error {
	var v any
	if err := unmarshal(&v); err != nil {
		return err
	}
	return d.set(v)
}

func (d *Decimals) set(v any) error {
	switch n := v.(type) {
	case float64:
		if n < 0 || n > math.MaxUint32 || n != math.Trunc(n) {
			return fmt.Errorf("decimals must be a non-negative 32-bit integer, got %v", n)
		}
		*d = Decimals(n)
	case int:
		return d.setInt(int64(n))
	case int64:
		return d.setInt(n)
	case uint64:
		if n > math.MaxUint32 {
			return fmt.Errorf("decimals must be a non-negative 32-bit integer, got %d", n)
		}
		*d = Decimals(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return ErrEmptyDecimals
		}
		parsed, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return fmt.Errorf("decimals must be a non-negative 32-bit integer, got %q", n)
		}
		*d = Decimals(parsed)
	default:
		return fmt.Errorf("decimals must be a number or numeric string, got %T", v)
	}
	return nil
}

func (d *Decimals) setInt(n int64) error {
	if n < 0 || n > math.MaxUint32 {
		return fmt.Errorf("decimals must be a non-negative 32-bit integer, got %d", n)
	}
	*d = Decimals(n)
	return nil
}
