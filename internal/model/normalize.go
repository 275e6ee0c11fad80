package model

import (
	"fmt"
	"strings"
)

// NormalizeMethods lowercases, validates and deduplicates notification
// methods keeping first-seen order.
func NormalizeMethods(values []string) ([]string, error) {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, raw := range values {
		method := strings.ToLower(strings.TrimSpace(raw))
		if method == "" {
			continue
		}
		if !IsNotificationMethod(method) {
			return nil, fmt.Errorf("unsupported alert method %q", raw)
		}
		if _, ok := seen[method]; ok {
			continue
		}
		seen[method] = struct{}{}
		out = append(out, method)
	}
	return out, nil
}

func IsNotificationMethod(method string) bool {
	for _, known := range NotificationMethods {
		if method == known {
			return true
		}
	}
	return false
}

// NormalizePhone strips formatting characters so "+1 (555) 010-0000" and
// "+15550100000" address the same line.
func NormalizePhone(raw string) string {
	raw = strings.TrimSpace(raw)
	var b strings.Builder
	b.Grow(len(raw))
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
