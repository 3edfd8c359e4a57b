package handler

import (
	"bytes"
	"encoding/json"
)

// OptionalString tracks presence and value for PATCH bodies:
//   - Present=false: field absent from JSON (don't change)
//   - Present=true, Value=nil: field is null or not a string (ignored)
//   - Present=true, Value=&"...": field carried a string
//
// A value of the wrong type is not an error. The web client sends whatever
// its form holds, and such fields are simply not applied. Truthy still
// records whether the raw value was set at all (anything but null, false,
// "" or 0), for rules that must reject an attempt whatever its type.
type OptionalString struct {
	Present bool
	Value   *string
	Truthy  bool
}

// UnmarshalJSON implements json.Unmarshaler.
// When this method is called, the field was present in the JSON.
func (o *OptionalString) UnmarshalJSON(data []byte) error {
	o.Present = true
	o.Value = nil
	o.Truthy = truthy(data)

	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		o.Value = &s
	}
	return nil
}

// Get returns the string value, or nil if absent or not a string.
func (o OptionalString) Get() *string {
	if !o.Present {
		return nil
	}
	return o.Value
}

// OptionalBool is OptionalString for flags. false is a real value.
type OptionalBool struct {
	Present bool
	Value   *bool
}

func (o *OptionalBool) UnmarshalJSON(data []byte) error {
	o.Present = true
	o.Value = nil

	var b bool
	if err := json.Unmarshal(data, &b); err == nil && string(bytes.TrimSpace(data)) != "null" {
		o.Value = &b
	}
	return nil
}

func (o OptionalBool) Get() *bool {
	if !o.Present {
		return nil
	}
	return o.Value
}

// truthy reports whether a raw JSON value is set: not null, false, "" or 0.
// Objects and arrays count as set even when empty.
func truthy(data []byte) bool {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	default:
		return true
	}
}
