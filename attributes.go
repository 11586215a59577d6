package elemental

import (
	"fmt"
	"strconv"
	"strings"
)

// StateAttribute is the observed attribute carrying a stateful component's
// serialized state.
const StateAttribute = "state"

// ParseFunc converts a raw attribute value into a property value.
type ParseFunc func(raw string) (any, error)

// Attribute is an observed attribute and the parser that turns its raw
// value into the matching property.
type Attribute struct {
	Name  string
	Parse ParseFunc
}

// StringAttr observes name and stores the raw value.
func StringAttr(name string) Attribute {
	return Attribute{Name: name, Parse: func(raw string) (any, error) {
		return raw, nil
	}}
}

// IntAttr observes name and stores it as an int.
func IntAttr(name string) Attribute {
	return Attribute{Name: name, Parse: func(raw string) (any, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0, nil
		}
		return strconv.Atoi(raw)
	}}
}

// FloatAttr observes name and stores it as a float64.
func FloatAttr(name string) Attribute {
	return Attribute{Name: name, Parse: func(raw string) (any, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return 0.0, nil
		}
		return strconv.ParseFloat(raw, 64)
	}}
}

// BoolAttr observes name and stores it as a bool. An empty value is false.
func BoolAttr(name string) Attribute {
	return Attribute{Name: name, Parse: func(raw string) (any, error) {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return false, nil
		}
		return strconv.ParseBool(raw)
	}}
}

// CustomAttr observes name with a caller supplied parser.
func CustomAttr(name string, parse ParseFunc) Attribute {
	return Attribute{Name: name, Parse: parse}
}

func (a Attribute) parse(raw string) (any, error) {
	v, err := a.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("elemental: attribute %q: %w", a.Name, err)
	}
	return v, nil
}
