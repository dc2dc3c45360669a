package rawcstr

import (
	"testing"

	"github.com/alecthomas/assert/v2"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "encoding error",
			err:  &EncodingError{Text: "bad\x00value", Pos: 3},
			want: "interior null byte at offset 3",
		},
		{
			name: "invalid utf8",
			err:  &InvalidUTF8Error{Pos: 7},
			want: "invalid UTF-8 sequence at offset 7",
		},
		{
			name: "empty buffer",
			err:  &NotTerminatedError{Len: 0},
			want: "empty buffer, expected null terminator",
		},
		{
			name: "unterminated buffer",
			err:  &NotTerminatedError{Len: 4},
			want: "last byte of 4-byte buffer is not a null terminator",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}
