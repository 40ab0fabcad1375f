// internal/testutil/helpers.go
package testutil

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"

	"leadrouter/internal/platform/logx"
)

// AssertEqual checks that two values are equal.
func AssertEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if got != want {
		t.Errorf("%s: got %v, want %v", msg, got, want)
	}
}

// AssertNotEqual checks that two values differ.
func AssertNotEqual(t *testing.T, got, want interface{}, msg string) {
	t.Helper()
	if got == want {
		t.Errorf("%s: got %v, should not equal %v", msg, got, want)
	}
}

// AssertNil checks that a value is nil.
func AssertNil(t *testing.T, got interface{}, msg string) {
	t.Helper()
	if !isNil(got) {
		t.Errorf("%s: expected nil, got %v", msg, got)
	}
}

// AssertNotNil checks that a value is not nil.
func AssertNotNil(t *testing.T, got interface{}, msg string) {
	t.Helper()
	if isNil(got) {
		t.Errorf("%s: expected non-nil value", msg)
	}
}

// isNil reports whether got is nil, including typed nils held in an interface.
func isNil(got interface{}) bool {
	if got == nil {
		return true
	}
	v := reflect.ValueOf(got)
	switch v.Kind() {
	case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
		return v.IsNil()
	}
	return false
}

// AssertError checks that an error is not nil.
func AssertError(t *testing.T, err error, msg string) {
	t.Helper()
	if err == nil {
		t.Errorf("%s: expected error, got nil", msg)
	}
}

// AssertNoError checks that there is no error.
func AssertNoError(t *testing.T, err error, msg string) {
	t.Helper()
	if err != nil {
		t.Errorf("%s: unexpected error: %v", msg, err)
	}
}

// AssertTrue checks that a condition holds.
func AssertTrue(t *testing.T, condition bool, msg string) {
	t.Helper()
	if !condition {
		t.Errorf("%s: expected true, got false", msg)
	}
}

// AssertFalse checks that a condition does not hold.
func AssertFalse(t *testing.T, condition bool, msg string) {
	t.Helper()
	if condition {
		t.Errorf("%s: expected false, got true", msg)
	}
}

// AssertContains checks that a string contains a substring.
func AssertContains(t *testing.T, s, substr, msg string) {
	t.Helper()
	if !strings.Contains(s, substr) {
		t.Errorf("%s: string %q does not contain %q", msg, s, substr)
	}
}

// TestLogger is a silent logger for tests.
type TestLogger struct{}

// NewTestLogger returns a logger that prints nothing.
func NewTestLogger() logx.Logger {
	return &TestLogger{}
}

func (l *TestLogger) Debug(msg string, kv ...any) {}
func (l *TestLogger) Info(msg string, kv ...any)  {}
func (l *TestLogger) Warn(msg string, kv ...any)  {}
func (l *TestLogger) Err(err error, kv ...any)    {}
func (l *TestLogger) With(kv ...any) logx.Logger  { return l }
func (l *TestLogger) SetLevel(lvl logx.Level)     {}

// UnmarshalJSON is a helper for unmarshaling JSON in tests.
func UnmarshalJSON(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}
