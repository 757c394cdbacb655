package errors

import "errors"

var (
	ErrUnauthorized     = errors.New("identity is not registered")
	ErrForbidden        = errors.New("caller does not own campaign")
	ErrCampaignNotFound = errors.New("campaign not found")
	ErrInvalidArgument  = errors.New("invalid campaign input")
)
