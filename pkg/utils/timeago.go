package utils

import (
	"fmt"
	"time"
)

var banglaMonths = [12]string{
	"জানুয়ারী", "ফেব্রুয়ারী", "মার্চ", "এপ্রিল", "মে", "জুন",
	"জুলাই", "আগস্ট", "সেপ্টেম্বর", "অক্টোবর", "নভেম্বর", "ডিসেম্বর",
}

// FormatDateBangla renders t as "১৭ অক্টোবর ২০২৬".
func FormatDateBangla(t time.Time) string {
	return ToBanglaDigits(fmt.Sprintf("%d %s %d", t.Day(), banglaMonths[t.Month()-1], t.Year()))
}

// TimeAgo describes how long before now t happened.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	minutes := int(diff / time.Minute)
	hours := int(diff / time.Hour)
	days := int(diff / (24 * time.Hour))

	switch {
	case minutes < 1:
		return "এখন"
	case minutes < 60:
		return ToBanglaDigits(fmt.Sprintf("%d", minutes)) + " মিনিট আগে"
	case hours < 24:
		return ToBanglaDigits(fmt.Sprintf("%d", hours)) + " ঘন্টা আগে"
	case days == 1:
		return "গতকাল"
	case days < 7:
		return ToBanglaDigits(fmt.Sprintf("%d", days)) + " দিন আগে"
	}
	return FormatDateBangla(t)
}
