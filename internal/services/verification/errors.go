package verification

import "errors"

var (
	ErrUploadNotAllowed  = errors.New("cannot upload documents at this time")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInvalidAction     = errors.New("invalid review action")
)
