package core

import "errors"

var (
	ErrInternalServerError  = errors.New("internal server error")
	ErrNotFound             = errors.New("not found")
	ErrInvalidAddress       = errors.New("invalid address")
	ErrInvalidContentPrefix = errors.New("no offchain content prefix")
	ErrMalformedTuple       = errors.New("malformed tuple")
	ErrInvalidHash          = errors.New("invalid hash")
)
