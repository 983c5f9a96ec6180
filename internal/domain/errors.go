package domain

import "errors"

var (
	ErrUnknownGroup   = errors.New("unknown group")
	ErrMissingPayload = errors.New("missing payload")
)
