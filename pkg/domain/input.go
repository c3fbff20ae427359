package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Input is the optional step input handed to a state's Handle.
type Input map[string]any

// Value returns the raw value for key.
func (in Input) Value(key string) (any, bool) {
	if in == nil {
		return nil, false
	}
	v, ok := in[key]
	return v, ok
}

// Has reports whether key is present.
func (in Input) Has(key string) bool {
	_, ok := in.Value(key)
	return ok
}

// String returns the trimmed string form of key, or "".
func (in Input) String(key string) string {
	v, ok := in.Value(key)
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return strings.TrimSpace(val)
	case fmt.Stringer:
		return strings.TrimSpace(val.String())
	default:
		return strings.TrimSpace(fmt.Sprint(val))
	}
}

// Strings returns key as a list. A string value is split on commas.
func (in Input) Strings(key string) []string {
	v, ok := in.Value(key)
	if !ok || v == nil {
		return nil
	}
	var raw []string
	switch val := v.(type) {
	case []string:
		raw = val
	case []any:
		for _, item := range val {
			raw = append(raw, fmt.Sprint(item))
		}
	case string:
		raw = strings.Split(val, ",")
	default:
		raw = []string{fmt.Sprint(val)}
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// Int parses key as an integer.
func (in Input) Int(key string) (int, bool) {
	v, ok := in.Value(key)
	if !ok || v == nil {
		return 0, false
	}
	switch val := v.(type) {
	case int:
		return val, true
	case int64:
		return int(val), true
	case float64:
		return int(val), true
	default:
		n, err := strconv.Atoi(strings.TrimSpace(fmt.Sprint(val)))
		if err != nil {
			return 0, false
		}
		return n, true
	}
}

// Confirm parses key as a yes/no answer. ok is false when the value is absent or unrecognized.
func (in Input) Confirm(key string) (yes bool, ok bool) {
	v, present := in.Value(key)
	if !present || v == nil {
		return false, false
	}
	if b, isBool := v.(bool); isBool {
		return b, true
	}
	return ParseConfirm(fmt.Sprint(v))
}

// ParseConfirm recognizes English and Indonesian yes/no answers.
func ParseConfirm(answer string) (yes bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "true", "1", "ya", "iya":
		return true, true
	case "n", "no", "false", "0", "tidak", "t":
		return false, true
	}
	return false, false
}

// IsQuit reports whether answer is one of the abort pseudo-commands.
func IsQuit(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "q", "quit", "exit":
		return true
	}
	return false
}

// Merge returns a new Input holding in's entries overridden by other's.
func (in Input) Merge(other Input) Input {
	out := make(Input, len(in)+len(other))
	for k, v := range in {
		out[k] = v
	}
	for k, v := range other {
		out[k] = v
	}
	return out
}
