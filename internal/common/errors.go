// Package common defines shared constants and sentinel errors used across
// the layers of the flashdeck client. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Transport-level errors.
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// Local validation errors (block the request entirely).
	ErrNotPDF = errors.New("file is not a PDF")

	// Controller-level errors.
	ErrDeckNotFound   = errors.New("deck not found")
	ErrCardNotFound   = errors.New("card not found")
	ErrUploadNotFound = errors.New("upload not found")
)
