package service

import (
	"fmt"
	"strings"
)

// firstString walks the payload map trying the given keys in priority
// order and returns the first non-empty string value.
func firstString(payload map[string]any, keys ...string) string {
	for _, key := range keys {
		v, ok := payload[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case string:
			if s := strings.TrimSpace(t); s != "" {
				return s
			}
		case float64:
			return strings.TrimSpace(fmt.Sprintf("%.0f", t))
		}
	}
	return ""
}
