package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexInt64 decodes from a JSON number or a numeric string, the way HTML form
// state is posted. An empty string or null leaves it at zero.
type FlexInt64 int64

func (f *FlexInt64) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid integer %s", b)
	}
	*f = FlexInt64(v)
	return nil
}

func (f FlexInt64) Int64() int64 { return int64(f) }

// Ptr returns nil for zero, so an unset id is stored as NULL.
func (f FlexInt64) Ptr() *int64 {
	if f == 0 {
		return nil
	}
	v := int64(f)
	return &v
}
