package fingerprint

import (
	"errors"
	"fmt"
)

type FileSizeTooSmallError struct {
	Expected int64
	Actual   int64
}

func (e *FileSizeTooSmallError) Error() string {
	return fmt.Sprintf("expected file size to be greater than %d bytes, got %d bytes", e.Expected, e.Actual)
}

// IsFileSizeTooSmall determines if the provided error is of type FileSizeTooSmallError.
func IsFileSizeTooSmall(err error) bool {
	var sizeErr *FileSizeTooSmallError
	return errors.As(err, &sizeErr)
}
