// Package base62 maps counter values to short alphanumeric codes and back.
//
// The alphabet ordering is part of the stored data: every issued code depends on it,
// so it must never change once codes have been handed out.
package base62

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Alphabet lists the 62 code symbols in digit order.
const Alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

const base = uint64(len(Alphabet))

var (
	ErrEmpty        = errors.New("base62: empty input")
	ErrInvalidChar  = errors.New("base62: invalid character")
	ErrLeadingZero  = errors.New("base62: leading zero")
	ErrValueTooLong = errors.New("base62: value overflows uint64")
)

// Encode converts n to its base62 representation, most significant digit first.
// Encode(0) returns the first alphabet symbol.
func Encode(n uint64) string {
	if n == 0 {
		return Alphabet[:1]
	}

	// 62^11 > 2^64, so eleven symbols always suffice.
	var buf [11]byte

	i := len(buf)
	for n > 0 {
		i--
		buf[i] = Alphabet[n%base]
		n /= base
	}

	return string(buf[i:])
}

// Decode converts a code produced by Encode back to its integer value.
func Decode(s string) (uint64, error) {
	if s == "" {
		return 0, ErrEmpty
	}

	if len(s) > 1 && s[0] == Alphabet[0] {
		return 0, fmt.Errorf("%w in %q", ErrLeadingZero, s)
	}

	var n uint64

	for i := 0; i < len(s); i++ {
		idx := strings.IndexByte(Alphabet, s[i])
		if idx < 0 {
			return 0, fmt.Errorf("%w %q at position %d", ErrInvalidChar, s[i], i)
		}

		if n > (math.MaxUint64-uint64(idx))/base {
			return 0, ErrValueTooLong
		}

		n = n*base + uint64(idx)
	}

	return n, nil
}

// Valid reports whether s could have been produced by Encode.
func Valid(s string) bool {
	_, err := Decode(s)

	return err == nil
}
