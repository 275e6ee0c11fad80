package storage

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNotFound is returned when a scoped row does not exist.
var ErrNotFound = errors.New("not found")

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	value := strings.TrimSpace(*v)
	if value == "" {
		return nil
	}
	return value
}

// ParseMethodsJSON decodes a stored method list; unreadable values yield an empty list.
func ParseMethodsJSON(v string) []string {
	if strings.TrimSpace(v) == "" {
		return []string{}
	}
	var out []string
	if err := json.Unmarshal([]byte(v), &out); err != nil {
		return []string{}
	}
	if out == nil {
		return []string{}
	}
	return out
}

func EncodeMethodsJSON(values []string) string {
	if len(values) == 0 {
		return "[]"
	}
	body, err := json.Marshal(values)
	if err != nil {
		return "[]"
	}
	return string(body)
}
