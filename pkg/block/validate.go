package block

import (
	"fmt"
	"reflect"
)

// LiteralRules constrains an individual literal field beyond its basic
// LiteralType: an optional numeric range and/or an allowed-values set.
type LiteralRules struct {
	Min, Max *float64
	Enum     []interface{}
}

// ValidationError reports a single manifest literal field that failed
// validation.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Field, e.Message)
}

// ValidateLiteral checks value against a field's declared rules. It does
// not attempt type coercion beyond the numeric comparisons rules require;
// pkg/definition is responsible for decoding JSON into values of the
// expected Go shape before this runs.
func ValidateLiteral(field string, value interface{}, rules *LiteralRules) error {
	if rules == nil {
		return nil
	}

	if rules.Min != nil || rules.Max != nil {
		n, err := toFloat64(value)
		if err != nil {
			return &ValidationError{Field: field, Message: err.Error()}
		}
		if rules.Min != nil && n < *rules.Min {
			return &ValidationError{Field: field, Message: fmt.Sprintf("value %v is less than minimum %v", n, *rules.Min)}
		}
		if rules.Max != nil && n > *rules.Max {
			return &ValidationError{Field: field, Message: fmt.Sprintf("value %v is greater than maximum %v", n, *rules.Max)}
		}
	}

	if len(rules.Enum) > 0 {
		found := false
		for _, allowed := range rules.Enum {
			if reflect.DeepEqual(value, allowed) {
				found = true
				break
			}
		}
		if !found {
			return &ValidationError{Field: field, Message: fmt.Sprintf("value %v is not among allowed values %v", value, rules.Enum)}
		}
	}

	return nil
}

func toFloat64(value interface{}) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	default:
		return 0, fmt.Errorf("cannot treat %T as numeric", value)
	}
}
