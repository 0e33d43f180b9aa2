package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// LocalDateTimeLayout is the zone-less layout the quiz backend uses for timestamps.
const LocalDateTimeLayout = "2006-01-02T15:04:05"

var jsonNull = []byte("null")

// FlexibleID decodes identifiers that arrive either as JSON numbers or strings.
// Values of any other JSON type decode to the empty ID.
type FlexibleID string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		*f = ""
		return nil
	}

	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return err
		}
		*f = FlexibleID(strings.TrimSpace(value))
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(trimmed, &number); err != nil {
		*f = ""
		return nil
	}
	*f = FlexibleID(number.String())
	return nil
}

// String returns the identifier as text.
func (f FlexibleID) String() string {
	return string(f)
}

// IsZero reports whether the identifier is absent.
func (f FlexibleID) IsZero() bool {
	return strings.TrimSpace(string(f)) == ""
}

// OptionalNumber is a nullable number. Numeric strings are accepted; anything
// else decodes as absent.
type OptionalNumber struct {
	Value float64
	Valid bool
}

// NewNumber returns a present OptionalNumber.
func NewNumber(value float64) OptionalNumber {
	return OptionalNumber{Value: value, Valid: true}
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *OptionalNumber) UnmarshalJSON(data []byte) error {
	*n = OptionalNumber{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	if trimmed[0] == '"' {
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil
		}
		*n = NewNumber(parsed)
		return nil
	}

	var value float64
	if err := json.Unmarshal(trimmed, &value); err != nil {
		return nil
	}
	*n = NewNumber(value)
	return nil
}

// MarshalJSON implements json.Marshaler.
func (n OptionalNumber) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return jsonNull, nil
	}
	return json.Marshal(n.Value)
}

// Ptr returns a pointer to the value, or nil when absent.
func (n OptionalNumber) Ptr() *float64 {
	if !n.Valid {
		return nil
	}
	value := n.Value
	return &value
}

// OrZero returns the value, treating an absent number as zero.
func (n OptionalNumber) OrZero() float64 {
	if !n.Valid {
		return 0
	}
	return n.Value
}

// FlexibleTime keeps a timestamp as text. Besides strings it understands epoch
// milliseconds and the [year, month, day, hour, minute, second, nanos] arrays
// produced by unconfigured LocalDateTime serialisers.
type FlexibleTime string

// UnmarshalJSON implements json.Unmarshaler.
func (t *FlexibleTime) UnmarshalJSON(data []byte) error {
	*t = ""
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, jsonNull) {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var value string
		if err := json.Unmarshal(trimmed, &value); err != nil {
			return nil
		}
		*t = FlexibleTime(strings.TrimSpace(value))
	case '[':
		var parts []int
		if err := json.Unmarshal(trimmed, &parts); err != nil || len(parts) < 3 {
			return nil
		}
		for len(parts) < 7 {
			parts = append(parts, 0)
		}
		stamp := time.Date(parts[0], time.Month(parts[1]), parts[2], parts[3], parts[4], parts[5], parts[6], time.UTC)
		*t = FlexibleTime(stamp.Format(LocalDateTimeLayout))
	default:
		var millis int64
		if err := json.Unmarshal(trimmed, &millis); err != nil {
			return nil
		}
		*t = FlexibleTime(time.UnixMilli(millis).UTC().Format(time.RFC3339Nano))
	}
	return nil
}

// String returns the raw timestamp text.
func (t FlexibleTime) String() string {
	return string(t)
}
