package history

import (
	"errors"
	"fmt"
)

// Error kinds returned by History operations. Match with errors.Is.
var (
	// ErrTooLarge: the encoded history exceeds the limit; nothing was written.
	ErrTooLarge = errors.New("history too large")
	// ErrStorage: the history could not be serialized, or the underlying
	// store rejected a read or write.
	ErrStorage = errors.New("storage failure")
	// ErrDecode: the slot is absent or does not hold a JSON message array.
	ErrDecode = errors.New("decode failure")
	// ErrInvalid: a message failed validation, on save or after decoding.
	ErrInvalid = errors.New("invalid history")
)

// SizeError reports a rejected save. It matches ErrTooLarge.
type SizeError struct {
	Units int // UTF-16 code units of the encoded history
	Limit int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%s: %d units exceeds limit of %d", ErrTooLarge, e.Units, e.Limit)
}

func (e *SizeError) Unwrap() error {
	return ErrTooLarge
}
