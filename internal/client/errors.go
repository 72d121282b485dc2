package client

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("task not found")

// TransportError covers network failures and unexpected store responses.
type TransportError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: task store returned %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func IsTransportError(err error) bool {
	var terr *TransportError
	return errors.As(err, &terr)
}
