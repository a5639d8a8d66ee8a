package utils

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCPF(t *testing.T) {
	cases := map[string]string{
		"1234567890":       "01234567890",
		"123.456.789-09":   "12345678909",
		" 529.982.247-25 ": "52998224725",
		"7":                "00000000007",
		"":                 "",
		"abc":              "00000000000",
		"-":                "00000000000",
		"N/A":              "00000000000",
		"123456789012":     "123456789012",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeCPF(in), "input %q", in)
	}
}

func TestNormalizeCPFIsIdempotent(t *testing.T) {
	inputs := []string{"", "0", "1234567890", "123.456.789-09", "cpf: 98.765.432/1", "x1y2z3", "000000000001"}
	for _, in := range inputs {
		once := NormalizeCPF(in)
		assert.Equal(t, once, NormalizeCPF(once), "input %q", in)
	}
}

func TestNormalizeCPFPadsShortDigitStrings(t *testing.T) {
	digits := "98765432101"
	for n := 1; n <= len(digits); n++ {
		in := digits[len(digits)-n:]
		out := NormalizeCPF(in)
		assert.Len(t, out, 11)
		assert.True(t, strings.HasSuffix(out, in))
		assert.Equal(t, strings.Repeat("0", 11-n), out[:11-n])
	}
}

func TestFormatCPF(t *testing.T) {
	pattern := regexp.MustCompile(`^\d{3}\.\d{3}\.\d{3}-\d{2}$`)

	assert.Equal(t, "012.345.678-90", FormatCPF("1234567890"))
	assert.Equal(t, "529.982.247-25", FormatCPF("52998224725"))
	for _, in := range []string{"1", "1234567890", "529.982.247-25", "00000000000"} {
		assert.Regexp(t, pattern, FormatCPF(NormalizeCPF(in)))
	}
	assert.Equal(t, "", FormatCPF(""))
}
