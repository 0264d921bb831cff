package adbridge

import "errors"

var (
	ErrInvalidArgument = errors.New("adbridge: invalid argument")
	ErrNotReady        = errors.New("adbridge: ad not ready")
	ErrAlreadySet      = errors.New("adbridge: background sink already set")
)
