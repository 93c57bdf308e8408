package model

import (
	"bytes"
	"database/sql/driver"
	"fmt"
	"strconv"

	"github.com/bytedance/sonic"
)

// Scalar is a nullable JSON scalar kept as text. Browser clients send part
// numbers and sizes either as strings or as numbers, both decode the same way.
type Scalar struct {
	Text  string
	Valid bool
}

func ScalarFrom(text string) Scalar {
	return Scalar{Text: text, Valid: true}
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*s = Scalar{}
		return nil
	case data[0] == '"':
		var text string
		if err := sonic.Unmarshal(data, &text); err != nil {
			return fmt.Errorf("scalar: %w", err)
		}
		*s = ScalarFrom(text)
		return nil
	case data[0] == '-' || (data[0] >= '0' && data[0] <= '9'):
		if _, err := strconv.ParseFloat(string(data), 64); err != nil {
			return fmt.Errorf("scalar: invalid number %s", data)
		}
		*s = ScalarFrom(string(data))
		return nil
	default:
		return fmt.Errorf("scalar: expected string or number, got %s", data)
	}
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.Valid {
		return []byte("null"), nil
	}
	return sonic.Marshal(s.Text)
}

// Value implements driver.Valuer so the validator treats an invalid Scalar as nil.
func (s Scalar) Value() (driver.Value, error) {
	if !s.Valid {
		return nil, nil
	}
	return s.Text, nil
}

// Int parses the scalar as a base-10 integer that fits in 32 bits.
func (s Scalar) Int() (int32, error) {
	if !s.Valid {
		return 0, fmt.Errorf("scalar: null")
	}
	n, err := strconv.ParseInt(s.Text, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("scalar: %w", err)
	}
	return int32(n), nil
}
