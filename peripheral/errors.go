package peripheral

import "errors"

var (
	ErrNotImplemented  = errors.New("not implemented on this chip")
	ErrNoData          = errors.New("no data ready")
	ErrInvalidConfig   = errors.New("invalid configuration")
	ErrInvalidPin      = errors.New("invalid pin")
	ErrInvalidInstance = errors.New("invalid peripheral instance")
	ErrInstanceTaken   = errors.New("peripheral instance already taken")
)
