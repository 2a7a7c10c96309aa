package formatter

import (
	"fmt"
	"sort"

	"github.com/mitchellh/mapstructure"
)

// Record is a validated record: every key of its schema, coerced.
type Record map[string]interface{}

// FieldError names the field whose coercion failed. It unwraps to the cause.
type FieldError struct {
	Key   string
	Value interface{}
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("invalid value for key %q: %v", e.Key, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// Check applies format to value. Keys are visited in sorted order so the
// reported field is stable when several are invalid.
func Check(format Format, value map[string]interface{}) (Record, error) {
	keys := make([]string, 0, len(format))
	for key := range format {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := make(Record, len(format))
	for _, key := range keys {
		coerced, err := format[key](value[key])
		if err != nil {
			return nil, &FieldError{Key: key, Value: value[key], Err: err}
		}
		result[key] = coerced
	}
	return result, nil
}

// decode copies a checked record into a typed struct using its json tags.
func decode(record Record, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Squash:  true,
		Result:  out,
	})
	if err != nil {
		return err
	}
	if err := decoder.Decode(map[string]interface{}(record)); err != nil {
		return fmt.Errorf("failed to decode %T: %w", out, err)
	}
	return nil
}
