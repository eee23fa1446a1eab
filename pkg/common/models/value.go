package models

import (
	"encoding/json"
	"fmt"
)

type ValueKind int

const (
	ValueAbsent ValueKind = iota
	ValueQuantity
	ValueString
	ValueConcept
)

func (k ValueKind) String() string {
	switch k {
	case ValueQuantity:
		return "quantity"
	case ValueString:
		return "string"
	case ValueConcept:
		return "concept"
	default:
		return "absent"
	}
}

// Value is a tagged variant: exactly one of quantity, string or coded
// concept is populated, or none when the kind is ValueAbsent.
type Value struct {
	kind     ValueKind
	quantity Quantity
	text     string
	concept  CodeableConcept
}

func QuantityValue(q Quantity) Value {
	return Value{kind: ValueQuantity, quantity: q}
}

func StringValue(s string) Value {
	return Value{kind: ValueString, text: s}
}

func ConceptValue(c CodeableConcept) Value {
	return Value{kind: ValueConcept, concept: c}
}

func (v Value) Kind() ValueKind { return v.kind }

func (v Value) IsAbsent() bool { return v.kind == ValueAbsent }

func (v Value) Quantity() (Quantity, bool) {
	if v.kind != ValueQuantity {
		return Quantity{}, false
	}
	return v.quantity, true
}

func (v Value) Text() (string, bool) {
	if v.kind != ValueString {
		return "", false
	}
	return v.text, true
}

func (v Value) Concept() (CodeableConcept, bool) {
	if v.kind != ValueConcept {
		return CodeableConcept{}, false
	}
	return v.concept, true
}

// Number returns the numeric value of a quantity, if any.
func (v Value) Number() (float64, bool) {
	if v.kind != ValueQuantity || v.quantity.Value == nil {
		return 0, false
	}
	return *v.quantity.Value, true
}

type valueWire struct {
	Kind     string           `json:"kind"`
	Quantity *Quantity        `json:"quantity,omitempty"`
	String   *string          `json:"string,omitempty"`
	Concept  *CodeableConcept `json:"concept,omitempty"`
}

func (v Value) MarshalJSON() ([]byte, error) {
	w := valueWire{Kind: v.kind.String()}
	switch v.kind {
	case ValueQuantity:
		q := v.quantity
		w.Quantity = &q
	case ValueString:
		s := v.text
		w.String = &s
	case ValueConcept:
		c := v.concept
		w.Concept = &c
	}
	return json.Marshal(w)
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var w valueWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	switch w.Kind {
	case "", "absent":
		*v = Value{}
	case "quantity":
		if w.Quantity == nil {
			return fmt.Errorf("value kind quantity without quantity")
		}
		*v = QuantityValue(*w.Quantity)
	case "string":
		if w.String == nil {
			return fmt.Errorf("value kind string without string")
		}
		*v = StringValue(*w.String)
	case "concept":
		if w.Concept == nil {
			return fmt.Errorf("value kind concept without concept")
		}
		*v = ConceptValue(*w.Concept)
	default:
		return fmt.Errorf("unknown value kind %q", w.Kind)
	}
	return nil
}
