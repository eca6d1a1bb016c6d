package service

import "errors"

var (
	ErrInvalidRequest   = errors.New("invalid request")
	ErrUnknownProblem   = errors.New("unknown problem")
	ErrIdentityMismatch = errors.New("username does not match credential")
)
