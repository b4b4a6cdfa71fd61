// Package watruntime defines the sentinel errors raised during
// instantiation (validation) and interpretation (traps). Call sites wrap
// them with fmt.Errorf("%w: ...") to attach detail; internal/spectest
// classifies a failure by unwrapping back to the sentinel.
package watruntime

import "errors"

var (
	// ErrInvalidNumberType: a literal or operand doesn't match its
	// declared/expected value type.
	ErrInvalidNumberType = errors.New("invalid number type")

	// ErrUnknownVariable: a local or global reference (by index or $name)
	// does not resolve.
	ErrUnknownVariable = errors.New("unknown variable")

	// ErrUnknownFunction: a call or invoke target does not resolve.
	ErrUnknownFunction = errors.New("unknown function")

	// ErrInvalidSyntax: the raw S-expression tree does not match any
	// recognized head-token shape.
	ErrInvalidSyntax = errors.New("invalid syntax")

	// ErrInvalidFunctionSignature: a call site's arguments don't match the
	// callee's declared parameters, or an immutable global is assigned.
	ErrInvalidFunctionSignature = errors.New("invalid function signature")

	// ErrInvalidFunctionResult: a function body or block leaves a
	// different value-type stack than its declared results.
	ErrInvalidFunctionResult = errors.New("invalid function result")

	// ErrStackOverflow: the operand stack would exceed wasm.MaxStackSlots.
	ErrStackOverflow = errors.New("stack overflow")

	// ErrStackEmpty: an operator popped an operand stack that had none
	// left at runtime.
	ErrStackEmpty = errors.New("stack empty")

	// ErrEmptyOperand: an operator lacks enough operands on the
	// compile-time stack.
	ErrEmptyOperand = errors.New("empty operand")

	// ErrDivisionByZero: integer div_s/div_u/rem_s/rem_u by zero.
	ErrDivisionByZero = errors.New("division by zero")

	// ErrIntegerOverflow: signed division overflow (INT_MIN / -1) or an
	// out-of-range float-to-int truncation.
	ErrIntegerOverflow = errors.New("integer overflow")

	// ErrUnexpectedToken: a malformed literal, or a construct the parser
	// recognizes by shape but rejects by content, e.g. a `quote` module.
	ErrUnexpectedToken = errors.New("unexpected token")

	// ErrUndefinedElement: a table slot or memory address is out of range.
	ErrUndefinedElement = errors.New("undefined element")

	// ErrUnreachable: the `unreachable` instruction executed.
	ErrUnreachable = errors.New("unreachable")

	// ErrUnknownLabel: a br/br_if/br_table target has no enclosing label.
	ErrUnknownLabel = errors.New("unknown label")
)
