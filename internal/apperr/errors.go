package apperr

import "errors"

var (
	ErrUnrecognizedResource = errors.New("unrecognized resource")
	ErrWriteFailed          = errors.New("write failed")
	ErrBulkInsertFailed     = errors.New("bulk insert failed")
)
