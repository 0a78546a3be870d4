package model

import "errors"

var (
	ErrLabelCount   = errors.New("classifier must expose exactly the four fixed class labels")
	ErrInputSize    = errors.New("unexpected input tensor size")
	ErrOutputSize   = errors.New("unexpected output tensor size")
	ErrNonFinite    = errors.New("classifier produced non-finite output")
	ErrInvalidShape = errors.New("invalid tensor shape")
)
