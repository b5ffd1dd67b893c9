package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// StringArray holds the sample-word and tag lists as a JSON column. Rows
// written before the lists existed may hold a bare string or nothing at
// all, so Scan is lenient about what it accepts.
type StringArray []string

func (a StringArray) Value() (driver.Value, error) {
	if len(a) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal([]string(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (a *StringArray) Scan(value interface{}) error {
	if a == nil {
		return fmt.Errorf("models.StringArray: Scan on nil pointer")
	}

	var raw string
	switch v := value.(type) {
	case nil:
		*a = StringArray{}
		return nil
	case []byte:
		raw = string(v)
	case string:
		raw = v
	default:
		return fmt.Errorf("models.StringArray: unsupported Scan type %T", value)
	}

	*a = decodeStringList(raw)
	return nil
}

// decodeStringList accepts a JSON array, a JSON string, or raw text and
// always yields a list, dropping blank entries.
func decodeStringList(raw string) StringArray {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "null" {
		return StringArray{}
	}

	var arr []string
	if err := json.Unmarshal([]byte(raw), &arr); err == nil {
		out := make(StringArray, 0, len(arr))
		for _, s := range arr {
			if strings.TrimSpace(s) != "" {
				out = append(out, s)
			}
		}
		return out
	}

	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if strings.TrimSpace(single) == "" {
			return StringArray{}
		}
		return StringArray{single}
	}

	return StringArray{raw}
}
