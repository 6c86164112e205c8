package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNull:
		return []byte("null"), nil
	case KindString:
		return json.Marshal(v.text)
	case KindNumber:
		if !json.Valid([]byte(v.text)) {
			return nil, fmt.Errorf("invalid number literal '%s'", v.text)
		}
		return []byte(v.text), nil
	case KindBool:
		return []byte(strconv.FormatBool(v.b)), nil
	case KindObject:
		return json.Marshal(v.obj)
	case KindArray:
		return json.Marshal(v.arr)
	default:
		return nil, fmt.Errorf("cannot marshal value of %s", v.kind)
	}
}

func (v *Value) UnmarshalJSON(data []byte) error {
	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()
	var raw any
	if err := decoder.Decode(&raw); err != nil {
		return err
	}
	converted, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = converted
	return nil
}

// UnmarshalYAML implements yaml.v2's Unmarshaler.
func (v *Value) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var raw interface{}
	if err := unmarshal(&raw); err != nil {
		return err
	}
	converted, err := FromAny(raw)
	if err != nil {
		return err
	}
	*v = converted
	return nil
}

// MarshalYAML implements yaml.v2's Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	return v.Any(), nil
}
