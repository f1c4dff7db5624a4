package editor

import "fmt"

// AppendItem returns a new list holding the items of list followed by item.
func AppendItem(list any, item any) []any {
	current := asList(list)
	out := make([]any, len(current), len(current)+1)
	copy(out, current)
	return append(out, item)
}

// ReplaceItem returns a new list with the element at index replaced.
func ReplaceItem(list any, index int, item any) ([]any, error) {
	current := asList(list)
	if index < 0 || index >= len(current) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(current))
	}
	out := make([]any, len(current))
	copy(out, current)
	out[index] = item
	return out, nil
}

// RemoveItem returns a new list without the element at index. Later
// elements shift down by one.
func RemoveItem(list any, index int) ([]any, error) {
	current := asList(list)
	if index < 0 || index >= len(current) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(current))
	}
	out := make([]any, 0, len(current)-1)
	out = append(out, current[:index]...)
	return append(out, current[index+1:]...), nil
}

// MoveItem returns a new list with the element at from relocated to to.
func MoveItem(list any, from, to int) ([]any, error) {
	current := asList(list)
	if from < 0 || from >= len(current) || to < 0 || to >= len(current) {
		return nil, fmt.Errorf("%w: move %d to %d of %d", ErrIndexOutOfRange, from, to, len(current))
	}
	out := make([]any, 0, len(current))
	out = append(out, current[:from]...)
	out = append(out, current[from+1:]...)
	item := current[from]
	out = append(out[:to], append([]any{item}, out[to:]...)...)
	return out, nil
}

// SetKey returns a shallow copy of record with key set to value. Keys the
// caller does not touch are carried over unchanged.
func SetKey(record any, key string, value any) map[string]any {
	current := asRecord(record)
	out := make(map[string]any, len(current)+1)
	for k, v := range current {
		out[k] = v
	}
	out[key] = value
	return out
}

func asList(value any) []any {
	switch typed := value.(type) {
	case []any:
		return typed
	case []string:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	case []map[string]any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = item
		}
		return out
	default:
		return nil
	}
}

func asRecord(value any) map[string]any {
	if typed, ok := value.(map[string]any); ok {
		return typed
	}
	return nil
}
