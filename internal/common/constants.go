package common

// Version is sent by the server as the first value of every session.
// The client hangs up without transferring anything if it does not match.
const Version int32 = 1

const DefaultPort = 2222

const (
	// LengthSize is the width of every length, count and version field.
	LengthSize int = 4
	BoolSize   int = 1
)
