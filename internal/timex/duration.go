// Package timex provides a time.Duration wrapper that survives JSON
// round-trips in configuration files.
package timex

import (
	"encoding/json"
	"fmt"
	"time"
)

// Duration accepts either a duration string ("5s", "2m") or integer
// nanoseconds when unmarshalled from JSON, and always marshals back to
// the string form.
type Duration struct {
	time.Duration
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		d.Duration = time.Duration(value)
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		d.Duration = parsed
	default:
		return fmt.Errorf("invalid duration: %v", v)
	}
	return nil
}
