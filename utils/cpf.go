package utils

import "strings"

const cpfLength = 11

// NormalizeCPF keeps only the digits and left-pads them with zeros to 11.
// Spreadsheets drop leading zeros when a CPF cell is auto-formatted as a
// number, so both sides of every comparison go through here. Only the empty
// string stays empty; placeholders such as "-" become all zeros.
func NormalizeCPF(raw string) string {
	if raw == "" {
		return ""
	}
	digits := DigitsOnly(raw)
	if len(digits) >= cpfLength {
		return digits
	}
	return strings.Repeat("0", cpfLength-len(digits)) + digits
}

func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// FormatCPF renders XXX.XXX.XXX-XX. Values that are not 11 digits after
// normalization are returned as they came.
func FormatCPF(raw string) string {
	n := NormalizeCPF(raw)
	if len(n) != cpfLength {
		return raw
	}
	return n[0:3] + "." + n[3:6] + "." + n[6:9] + "-" + n[9:11]
}
