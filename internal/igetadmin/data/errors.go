package data

import "errors"

var ErrUniqueConstraintViolation = errors.New("unique constraint violation")
