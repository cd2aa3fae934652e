package photos

import "errors"

var (
	ErrInvalidField     = errors.New("invalid photo field")
	ErrInvalidDate      = errors.New("invalid photo date")
	ErrInvalidDirection = errors.New("invalid move direction")
)
