package rawcstr

import "fmt"

// EncodingError reports text that cannot be encoded as a null-terminated
// byte sequence because it contains an interior null byte.
type EncodingError struct {
	Text string
	Pos  int
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("interior null byte at offset %d", e.Pos)
}

// InvalidUTF8Error reports bytes that cannot be interpreted as valid text.
type InvalidUTF8Error struct {
	Pos int
}

func (e *InvalidUTF8Error) Error() string {
	return fmt.Sprintf("invalid UTF-8 sequence at offset %d", e.Pos)
}

// NotTerminatedError reports a buffer that claims to be null-terminated but
// is empty or does not end with a null byte.
type NotTerminatedError struct {
	Len int
}

func (e *NotTerminatedError) Error() string {
	if e.Len == 0 {
		return "empty buffer, expected null terminator"
	}
	return fmt.Sprintf("last byte of %d-byte buffer is not a null terminator", e.Len)
}
