package value_objects

import (
	"errors"
	"fmt"
	"strings"
)

// CodeSeparator joins resource and action in a permission code.
const CodeSeparator = ":"

// ErrMalformedCode is returned when a permission code has no separator.
var ErrMalformedCode = errors.New("malformed permission code")

// EncodeCode canonicalises a resource/action pair into "resource:action".
func EncodeCode(resource, action string) string {
	return strings.ToLower(resource) + CodeSeparator + strings.ToLower(action)
}

// DecodeCode splits a permission code on its first separator.
func DecodeCode(code string) (resource string, action string, err error) {
	resource, action, found := strings.Cut(code, CodeSeparator)
	if !found {
		return "", "", fmt.Errorf("%w: %q", ErrMalformedCode, code)
	}
	return resource, action, nil
}
