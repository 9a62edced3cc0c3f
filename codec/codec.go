// Package codec converts ceremony binary fields (challenges, credential IDs,
// signatures) between raw bytes and the URL-safe, unpadded textual encoding
// used on the wire.
package codec

import (
	"encoding/base64"
	"errors"
	"fmt"
)

// ErrMalformedEncoding is returned when decoding input that is not valid
// URL-safe unpadded base64. Callers must treat this as a hard failure rather
// than substituting empty output.
var ErrMalformedEncoding = errors.New("malformed encoding")

// Encode returns the URL-safe, padding-free textual representation of b.
// An empty input encodes to the empty string.
func Encode(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// Decode is the exact inverse of Encode. It round-trips every byte sequence
// produced by Encode, including the empty one.
func Decode(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEncoding, err)
	}
	return b, nil
}
