package repository

import "errors"

// Sentinel kinds for storage errors.
var (
	ErrNotFound        = errors.New("record not found")
	ErrForeignKey      = errors.New("foreign key violated")
	ErrReadOnly        = errors.New("write in read-only transaction")
	ErrUnknownDialect  = errors.New("unknown sql dialect")
	ErrCorruptDataFile = errors.New("corrupt data file")
)
