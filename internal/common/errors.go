package common

import (
	"errors"
	"fmt"
)

// ErrInvalidString marks a length-prefixed string field whose bytes are
// not valid UTF-8.
var ErrInvalidString = errors.New("string field is not valid UTF-8")

// ErrNegativeLength marks a length or count field below zero.
var ErrNegativeLength = errors.New("negative length field")

// VersionError is returned by a client whose expected protocol version
// does not match what the server announced.
type VersionError struct {
	Got  int32
	Want int32
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("server speaks protocol version %v but this client expects %v", e.Got, e.Want)
}
