package pkg

import (
	"strings"
	"unsafe"
)

// BytesToString converts the byte slice without copying. The slice must not
// be mutated afterwards.
func BytesToString(buf []byte) string {
	return *(*string)(unsafe.Pointer(&buf))
}

// TrimmedBytesToString is BytesToString plus whitespace trimming, handy for
// command output.
func TrimmedBytesToString(buf []byte) string {
	return strings.TrimSpace(BytesToString(buf))
}
