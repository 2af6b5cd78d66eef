// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers and services to distinguish between failure scenarios
// without inspecting SQL errors directly.
package repository

import "errors"

// ErrNotFound is returned when a row does not exist, or exists but is
// not visible to the calling user. Handlers translate this into 404.
var ErrNotFound = errors.New("not found")

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own. Handlers translate this into 403.
var ErrForbidden = errors.New("forbidden")
