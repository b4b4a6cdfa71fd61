package spectest

import (
	"strings"

	"github.com/watconform/watconform/internal/watruntime"
)

// messageClasses maps the expected-failure message substrings assertion
// scripts use to the sentinel error(s) that satisfy them.
var messageClasses = []struct {
	substr string
	errs   []error
}{
	{"type mismatch", []error{watruntime.ErrInvalidNumberType, watruntime.ErrEmptyOperand, watruntime.ErrInvalidFunctionResult}},
	{"integer divide by zero", []error{watruntime.ErrDivisionByZero}},
	{"integer overflow", []error{watruntime.ErrIntegerOverflow}},
	{"unexpected token", []error{watruntime.ErrUnexpectedToken}},
	{"undefined element", []error{watruntime.ErrUndefinedElement}},
	{"unknown label", []error{watruntime.ErrUnknownLabel}},
	{"inline function type", []error{watruntime.ErrUnexpectedToken}},
	{"mismatching label", []error{watruntime.ErrUnexpectedToken}},
	{"unreachable", []error{watruntime.ErrUnreachable}},
	{"out of bounds memory access", []error{watruntime.ErrUndefinedElement}},
	{"uninitialized element", []error{watruntime.ErrUndefinedElement}},
	{"indirect call type mismatch", []error{watruntime.ErrInvalidFunctionSignature}},
	{"unknown function", []error{watruntime.ErrUnknownFunction}},
	{"unknown global", []error{watruntime.ErrUnknownVariable}},
	{"unknown local", []error{watruntime.ErrUnknownVariable}},
	{"unknown type", []error{watruntime.ErrUnknownFunction}},
	{"immutable global", []error{watruntime.ErrInvalidFunctionSignature}},
}

// satisfiesMessage reports whether err is an acceptable cause for a trap
// or validation failure whose expected message is msg. Official assertion
// scripts word messages slightly differently across versions, so the
// error text never needs to match verbatim, only to originate from the
// right trap/validation class. An empty or unrecognized msg accepts any
// error.
func satisfiesMessage(msg string, err error) bool {
	if err == nil {
		return false
	}
	lower := strings.ToLower(msg)
	for _, mc := range messageClasses {
		if strings.Contains(lower, mc.substr) {
			for _, want := range mc.errs {
				if isOrWraps(err, want) {
					return true
				}
			}
			return false
		}
	}
	return true
}

func isOrWraps(err, target error) bool {
	for err != nil {
		if err == target {
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}
