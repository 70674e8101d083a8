package documents

import "errors"

var (
	ErrNotFound      = errors.New("document not found")
	ErrNoFile        = errors.New("no file provided")
	ErrStorage       = errors.New("storage failure")
	ErrInvalidStatus = errors.New("invalid document status")
)
