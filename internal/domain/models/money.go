package models

import (
	"bytes"
	"encoding/json"
	"reflect"

	"github.com/shopspring/decimal"
)

// Money is an exact decimal amount. It travels over JSON as a plain number
// and is stored as NUMERIC (Postgres) or TEXT (SQLite).
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromInt builds a whole-unit amount.
func MoneyFromInt(v int64) Money {
	return Money{Decimal: decimal.NewFromInt(v)}
}

// ParseMoney parses the decimal text representation.
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, err
	}
	return Money{Decimal: d}, nil
}

// MarshalJSON writes the exact amount as an unquoted JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// UnmarshalJSON accepts JSON numbers only; quoted amounts are rejected
// with a *json.UnmarshalTypeError so decoders can report the field.
func (m *Money) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' || data[0] == '{' || data[0] == '[' {
		return moneyTypeError(data)
	}
	d, err := decimal.NewFromString(string(data))
	if err != nil {
		return moneyTypeError(data)
	}
	if d.IsZero() {
		// 0e999999999 would otherwise rescale on every String call.
		d = decimal.Zero
	}
	m.Decimal = d
	return nil
}

func moneyTypeError(data []byte) error {
	value := "value"
	if len(data) > 0 {
		switch data[0] {
		case '"':
			value = "string"
		case '{':
			value = "object"
		case '[':
			value = "array"
		case 't', 'f':
			value = "bool"
		}
	}
	return &json.UnmarshalTypeError{Value: value, Type: reflect.TypeOf(Money{})}
}
