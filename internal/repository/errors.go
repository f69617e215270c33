// Package repository defines sentinel errors shared by repositories so
// handlers can map failure scenarios to HTTP statuses without inspecting
// driver errors.
package repository

import "errors"

// ErrUserNotFound is returned when no user row matches the given email.
// The login handler translates this into an HTTP 404 response.
var ErrUserNotFound = errors.New("user not found")
