package motion

import "errors"

var (
	ErrSelectionMismatch = errors.New("selection does not match the requested kind")
	ErrInvalidRange      = errors.New("invalid frame range")
	ErrBusy              = errors.New("another motion path operation is running")
)
