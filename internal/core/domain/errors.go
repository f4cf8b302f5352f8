package domain

import "errors"

var ErrUserExists = errors.New("username already exists")
var ErrEmailExists = errors.New("email already exists")
var ErrUserNotFound = errors.New("user not found")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidInput = errors.New("invalid input")
var ErrForbidden = errors.New("access forbidden")
var ErrMalformedToken = errors.New("malformed token")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrVersionConflict = errors.New("record version conflict")
var ErrStoreUnavailable = errors.New("credential store unavailable")
var ErrTooManyAttempts = errors.New("too many failed login attempts")
