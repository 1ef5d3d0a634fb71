package repository

import "errors"

var (
	ErrDuplicateKey   = errors.New("duplicate key")
	ErrFailedToInsert = errors.New("failed to insert record")
	ErrFailedToGet    = errors.New("failed to get record")
	ErrFailedToList   = errors.New("failed to list records")
	ErrFailedToDelete = errors.New("failed to delete record")
	ErrEmptyFilter    = errors.New("empty filter")
)
