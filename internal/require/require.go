// Package require is a thin wrapper over testify/assert that fails the
// test immediately on the first unmet assertion.
package require

import (
	"github.com/stretchr/testify/assert"
)

// TestingT is the subset of *testing.T this package needs, letting
// callers pass either a real *testing.T or a compatible fake.
type TestingT interface {
	Errorf(format string, args ...interface{})
	FailNow()
}

// Equal fails t now if expected and actual are not equal.
func Equal(t TestingT, expected, actual interface{}, msgAndArgs ...interface{}) {
	if !assert.Equal(t, expected, actual, msgAndArgs...) {
		t.FailNow()
	}
}

// True fails t now if value is false.
func True(t TestingT, value bool, msgAndArgs ...interface{}) {
	if !assert.True(t, value, msgAndArgs...) {
		t.FailNow()
	}
}

// NoError fails t now if err is non-nil.
func NoError(t TestingT, err error, msgAndArgs ...interface{}) {
	if !assert.NoError(t, err, msgAndArgs...) {
		t.FailNow()
	}
}

// Error fails t now if err is nil.
func Error(t TestingT, err error, msgAndArgs ...interface{}) {
	if !assert.Error(t, err, msgAndArgs...) {
		t.FailNow()
	}
}

// ErrorIs fails t now if err does not wrap target.
func ErrorIs(t TestingT, err, target error, msgAndArgs ...interface{}) {
	if !assert.ErrorIs(t, err, target, msgAndArgs...) {
		t.FailNow()
	}
}

// Nil fails t now if v is non-nil.
func Nil(t TestingT, v interface{}, msgAndArgs ...interface{}) {
	if !assert.Nil(t, v, msgAndArgs...) {
		t.FailNow()
	}
}

// Len fails t now if v's length does not equal length.
func Len(t TestingT, v interface{}, length int, msgAndArgs ...interface{}) {
	if !assert.Len(t, v, length, msgAndArgs...) {
		t.FailNow()
	}
}
