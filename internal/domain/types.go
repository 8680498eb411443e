// Package domain – SQL-mapped value types.
//
// Vector and BusinessHours serialize to JSON inside TEXT columns so the
// store stays portable across SQL engines without driver-specific array or
// JSON column types.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Vector is an externally computed embedding. It round-trips through a TEXT
// column as a JSON float array; a nil Vector maps to SQL NULL (entry has no
// embedding).
type Vector []float32

// Dim returns the vector dimension (0 for a nil vector).
func (v Vector) Dim() int { return len(v) }

// Value implements driver.Valuer.
func (v Vector) Value() (driver.Value, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal([]float32(v))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (v *Vector) Scan(src any) error {
	if src == nil {
		*v = nil
		return nil
	}
	var b []byte
	switch s := src.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return fmt.Errorf("vector: cannot scan %T", src)
	}
	if len(b) == 0 {
		*v = nil
		return nil
	}
	var out []float32
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("vector: %w", err)
	}
	*v = out
	return nil
}

// BusinessHours maps a weekday name (lowercase, e.g. "monday") to an opening
// range string such as "09:00-18:00". Days absent from the map are closed.
type BusinessHours map[string]string

// Value implements driver.Valuer.
func (h BusinessHours) Value() (driver.Value, error) {
	if h == nil {
		return nil, nil
	}
	b, err := json.Marshal(map[string]string(h))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (h *BusinessHours) Scan(src any) error {
	if src == nil {
		*h = nil
		return nil
	}
	var b []byte
	switch s := src.(type) {
	case []byte:
		b = s
	case string:
		b = []byte(s)
	default:
		return errors.New("business hours: unsupported column type")
	}
	if len(b) == 0 {
		*h = nil
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal(b, &out); err != nil {
		return fmt.Errorf("business hours: %w", err)
	}
	*h = out
	return nil
}
