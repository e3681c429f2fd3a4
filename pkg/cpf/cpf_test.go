package cpf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"formatted", "111.444.777-35", "11144477735"},
		{"already raw", "11144477735", "11144477735"},
		{"spaces and letters", " 111 abc 444 ", "111444"},
		{"empty", "", ""},
		{"no digits", "abc.-", ""},
		{"more than eleven digits kept", "1234567890123", "1234567890123"},
		{"non ascii digits dropped", "١٢٣123", "123"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.input))
		})
	}
}

func TestFormat_Progressive(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"1", "1"},
		{"123", "123"},
		{"1234", "123.4"},
		{"123456", "123.456"},
		{"1234567", "123.456.7"},
		{"123456789", "123.456.789"},
		{"1234567890", "123.456.789-0"},
		{"12345678901", "123.456.789-01"},
		{"123456789012345", "123.456.789-01"},
		{"123.456.789-01", "123.456.789-01"},
		{"abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, Format(tt.input))
		})
	}
}

func TestFormat_Idempotent(t *testing.T) {
	for _, digits := range []string{"11144477735", "52998224725", "00000000000", "98765432100"} {
		once := Format(digits)
		assert.Equal(t, once, Format(once))
		assert.Equal(t, once, Format(Normalize(once)))
	}
}

func TestNormalize_InvertsFormat(t *testing.T) {
	source := "52998224725"
	for i := 0; i <= len(source); i++ {
		digits := source[:i]
		assert.Equal(t, digits, Normalize(Format(digits)), "prefix length %d", i)
	}
}

func TestIsValid_KnownNumbers(t *testing.T) {
	valid := []string{"11144477735", "111.444.777-35", "52998224725", "529.982.247-25"}
	for _, v := range valid {
		assert.True(t, IsValid(v), v)
	}

	invalid := []string{"", "123", "11144477734", "11144477745", "1114447773", "111444777350", "abc"}
	for _, v := range invalid {
		assert.False(t, IsValid(v), v)
	}
}

func TestIsValid_RejectsRepeatedDigits(t *testing.T) {
	for d := '0'; d <= '9'; d++ {
		repeated := strings.Repeat(string(d), Length)
		assert.False(t, IsValid(repeated), repeated)
	}
}

func TestIsValid_SingleDigitCorruption(t *testing.T) {
	for _, base := range []string{"11144477735", "52998224725"} {
		require.True(t, IsValid(base))

		for i := 0; i < Length; i++ {
			for d := byte('0'); d <= '9'; d++ {
				if d == base[i] {
					continue
				}
				mutated := base[:i] + string(d) + base[i+1:]
				assert.False(t, IsValid(mutated), "mutation %s of %s should be invalid", mutated, base)
			}
		}
	}
}

func TestParse(t *testing.T) {
	digits, err := Parse("111.444.777-35")
	require.NoError(t, err)
	assert.Equal(t, "11144477735", digits)

	_, err = Parse("111.444.777-36")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalid))
	assert.Contains(t, err.Error(), "111.444.777-36")
}

func TestMask(t *testing.T) {
	assert.Equal(t, "111.***.***-35", Mask("11144477735"))
	assert.Equal(t, "111.***.***-35", Mask("111.444.777-35"))
	assert.Equal(t, "****", Mask("1234"))
}
