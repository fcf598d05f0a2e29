package util

import (
	"strconv"
	"strings"
	"time"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseID parses a positive numeric path parameter.
func ParseID(field, s string) (uint, error) {
	id := MustParseUint(s)
	if id == 0 {
		return 0, NewValidationError("invalid id", FieldError{Field: field, Error: "must be a positive integer"})
	}
	return id, nil
}

// ParseDeadline accepts RFC 3339 timestamps and plain dates. A plain date
// means the end of that day in UTC, so a due date of 2025-01-10 still accepts
// work submitted on the 10th.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(TimeFormat, s); err == nil {
		return t.UTC(), nil
	}
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, err
	}
	return d.Add(24*time.Hour - time.Second), nil
}

// ParseStart is ParseDeadline for the opening end of a window: a plain date
// means the start of that day.
func ParseStart(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(TimeFormat, s); err == nil {
		return t.UTC(), nil
	}
	return time.Parse(DateFormat, s)
}
