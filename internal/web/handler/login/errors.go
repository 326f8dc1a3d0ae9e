// Package login provides the login page of the admin area.
//
// This file defines exported error values used throughout the login flow.
package login

import "errors"

var (
	// ErrInvalidFormData is returned when the submitted login form cannot be parsed.
	ErrInvalidFormData = errors.New("invalid form data")

	// ErrInvalidCredentials is shown when the identifier and password do not match an active user.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrInternalServerError is returned for unexpected failures during the login process.
	ErrInternalServerError = errors.New("internal server error")
)
