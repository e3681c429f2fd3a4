// Package cpf formats and validates Brazilian CPF numbers.
//
// A CPF is stored and compared in its normalized form (11 ASCII digits).
// The punctuated form "123.456.789-01" is for display only.
package cpf

import (
	"errors"
	"fmt"
	"strings"
)

// Length is the number of digits in a normalized CPF
const Length = 11

// ErrInvalid is returned when a CPF fails the length or checksum validation
var ErrInvalid = errors.New("invalid CPF")

// Normalize strips every character that is not an ASCII digit
func Normalize(input string) string {
	var b strings.Builder
	b.Grow(len(input))
	for _, r := range input {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Format renders input in the punctuated form XXX.XXX.XXX-XX.
// Separators are only inserted once a digit follows them, so partial input
// can be formatted on every keystroke ("1234" becomes "123.4").
func Format(input string) string {
	digits := Normalize(input)
	if len(digits) > Length {
		digits = digits[:Length]
	}

	var b strings.Builder
	b.Grow(Length + 3)
	for i := 0; i < len(digits); i++ {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}

// IsValid reports whether raw holds a CPF with correct check digits.
// Punctuation is ignored; sequences of one repeated digit are rejected.
func IsValid(raw string) bool {
	digits := Normalize(raw)
	if len(digits) != Length {
		return false
	}

	if strings.Count(digits, digits[:1]) == Length {
		return false
	}

	d := make([]int, Length)
	for i := range digits {
		d[i] = int(digits[i] - '0')
	}

	if checkDigit(d[:9]) != d[9] {
		return false
	}
	return checkDigit(d[:10]) == d[10]
}

// Parse normalizes raw and validates it, returning the 11 digits
func Parse(raw string) (string, error) {
	digits := Normalize(raw)
	if !IsValid(digits) {
		return "", fmt.Errorf("%w: %q", ErrInvalid, Format(raw))
	}
	return digits, nil
}

// Mask hides the middle digits of a CPF for logs ("123.***.***-01")
func Mask(raw string) string {
	digits := Normalize(raw)
	if len(digits) != Length {
		return strings.Repeat("*", len(digits))
	}
	return digits[:3] + ".***.***-" + digits[9:]
}

// checkDigit computes the modulo-11 check digit over prefix, weighting the
// first digit with len(prefix)+1 down to 2 for the last one.
func checkDigit(prefix []int) int {
	weight := len(prefix) + 1
	sum := 0
	for i, digit := range prefix {
		sum += digit * (weight - i)
	}
	d := 11 - sum%11
	if d > 9 {
		d = 0
	}
	return d
}
