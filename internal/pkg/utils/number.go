package utils

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OptionalNumber decodes a JSON number, a numeric string, "" or null.
// Anything that does not parse to a finite number decodes as absent.
type OptionalNumber struct {
	Value *float64
}

func NewOptionalNumber(v float64) OptionalNumber {
	return OptionalNumber{Value: &v}
}

func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	n.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	var raw string
	if data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	} else {
		raw = string(data)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	n.Value = &v
	return nil
}

func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if n.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*n.Value)
}

// Int returns the value truncated to an int, or nil when absent.
func (n OptionalNumber) Int() *int {
	if n.Value == nil {
		return nil
	}
	v := int(*n.Value)
	return &v
}
