package utils

import "strings"

const banglaZero = '০'

// ToASCIIDigits rewrites Bengali digits (০-৯) to 0-9 and leaves everything else alone.
func ToASCIIDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= banglaZero && r <= banglaZero+9 {
			return '0' + (r - banglaZero)
		}
		return r
	}, s)
}

// ToBanglaDigits is the inverse of ToASCIIDigits.
func ToBanglaDigits(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return banglaZero + (r - '0')
		}
		return r
	}, s)
}
