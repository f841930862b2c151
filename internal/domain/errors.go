package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateRoom    = errors.New("room already exists")
	ErrMissingRoomID    = errors.New("provider response has no room id")
	ErrMissingToken     = errors.New("provider response has no token")
	ErrUnexpectedStatus = errors.New("provider returned non-success status")
	ErrMissingUserID    = errors.New("participant has no user id")
)

// ProviderError is returned when the external video provider is unreachable
// or answers with a non-success response.
type ProviderError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider %s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// PersistenceError is returned on constraint violations or storage failures.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
