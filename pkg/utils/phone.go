package utils

import (
	"regexp"
	"strings"
)

// Bangladesh mobile numbers: 01 followed by an operator digit 3-9 and 8 more digits.
var phoneRegex = regexp.MustCompile(`^01[3-9]\d{8}$`)

func IsValidPhone(phone string) bool {
	return phoneRegex.MatchString(ToASCIIDigits(strings.TrimSpace(phone)))
}

// FormatPhone renders 01712345678 as 0171-234-5678.
func FormatPhone(phone string) string {
	if len(phone) != 11 {
		return phone
	}
	return phone[:4] + "-" + phone[4:7] + "-" + phone[7:]
}
