package cli

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	rawcstr "github.com/novafacing/raw-cstr"
)

func TestCheckFileClean(t *testing.T) {
	path := writeInput(t, "usb0 eth0\nlo\n")

	problems, total, err := checkFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 0, len(problems))
}

func TestCheckFileReportsProblems(t *testing.T) {
	path := writeInput(t, "good\nbad\x00value\nbroken\xffutf8 fine\n")

	problems, total, err := checkFile(path)
	assert.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Equal(t, 2, len(problems))

	assert.Equal(t, 2, problems[0].Line)
	var encErr *rawcstr.EncodingError
	assert.True(t, errors.As(problems[0].Err, &encErr))

	assert.Equal(t, 3, problems[1].Line)
	var utf8Err *rawcstr.InvalidUTF8Error
	assert.True(t, errors.As(problems[1].Err, &utf8Err))
}

func TestCheckFileMissing(t *testing.T) {
	_, _, err := checkFile("does-not-exist.txt")
	assert.Error(t, err)
}
