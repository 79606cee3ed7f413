package domain

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// OrderItems decodes the item shapes older clients and data files used:
// a bare item name, {name, quantity} and {id, quantity}. Everything below
// the decoder only ever sees OrderItem values with a positive quantity.
type OrderItems []OrderItem

func (items *OrderItems) UnmarshalJSON(b []byte) error {
	*items = nil
	b = bytes.TrimSpace(b)
	if len(b) == 0 || b[0] != '[' {
		// null and non-array payloads carry no items
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	out := make(OrderItems, 0, len(raw))
	for _, r := range raw {
		if it, ok := DecodeItem(r); ok {
			out = append(out, it)
		}
	}
	*items = out
	return nil
}

// DecodeItem normalises a single legacy item entry. ok is false for entries
// that name nothing, such as numbers, nulls or objects without name and id.
func DecodeItem(raw json.RawMessage) (OrderItem, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return OrderItem{}, false
	}
	switch raw[0] {
	case '"':
		var name string
		if err := json.Unmarshal(raw, &name); err != nil || name == "" {
			return OrderItem{}, false
		}
		return OrderItem{Name: name, Quantity: 1}, true
	case '{':
		var obj struct {
			ID       flexString `json:"id"`
			Name     string     `json:"name"`
			Quantity flexNumber `json:"quantity"`
		}
		if err := json.Unmarshal(raw, &obj); err != nil {
			return OrderItem{}, false
		}
		if obj.Name == "" && obj.ID == "" {
			return OrderItem{}, false
		}
		qty := int(obj.Quantity)
		if qty < 1 {
			qty = 1
		}
		return OrderItem{ID: string(obj.ID), Name: obj.Name, Quantity: qty}, true
	}
	return OrderItem{}, false
}

// Ordinal is a display position. Imported menus sometimes stored positions
// as strings, so numeric strings are accepted and anything else reads as 0.
type Ordinal int

func (o *Ordinal) UnmarshalJSON(b []byte) error {
	*o = Ordinal(flexNumberFrom(b))
	return nil
}

type flexString string

func (s *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*s = flexString(v)
		return nil
	}
	if string(b) == "null" {
		*s = ""
		return nil
	}
	*s = flexString(string(b))
	return nil
}

type flexNumber int

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = flexNumber(flexNumberFrom(b))
	return nil
}

// flexNumberFrom reads a JSON number or numeric string, clamped to the
// int32 range so sums of decoded values cannot overflow.
func flexNumberFrom(b []byte) int {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) {
		return 0
	}
	switch {
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
