package shipment

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Field is a form value that the front end sends either as a JSON string or
// a JSON number. It is kept as text and parsed on demand.
type Field string

func (f *Field) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = Field(s)
		return nil
	}
	*f = Field(b)
	return nil
}

// Decimal parses the field, accepting a comma as decimal separator. Anything
// unparseable is zero.
func (f Field) Decimal() decimal.Decimal {
	s := strings.ReplaceAll(strings.TrimSpace(string(f)), ",", ".")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Int parses the field as a non-negative integer, zero when invalid.
func (f Field) Int() int {
	n, err := strconv.Atoi(strings.TrimSpace(string(f)))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

func decimalField(d decimal.Decimal) Field {
	return Field(d.String())
}
