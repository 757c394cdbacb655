package errors

import "errors"

var (
	ErrInvalidArgument  = errors.New("invalid identity registration")
	ErrIdentityNotFound = errors.New("identity not found")
)
