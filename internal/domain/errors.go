package domain

import "errors"

// ErrNotFound is returned when an item target names a row that does not exist.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when a write was rejected by
// field validation or by the store. The repository itself never returns it;
// it reports a rejected write as a failure marker instead.
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrUnsupportedTarget is returned when an operation is not defined for the
// requested target, e.g. an insert on an item path or an unknown path.
var ErrUnsupportedTarget = errors.New("unsupported target")

// ErrUnknownTarget is returned when a target cannot be resolved to a type tag.
// It indicates a programming error in the caller.
var ErrUnknownTarget = errors.New("unknown target")

// ErrUnknownColumn is returned when a projection, filter, or sort names a
// column the target's table does not have.
var ErrUnknownColumn = errors.New("unknown column")
