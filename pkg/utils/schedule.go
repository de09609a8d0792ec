package utils

import (
	"fmt"
	"time"
)

const (
	ScheduleWindowDays = 7
	DateLayout         = "2006-01-02"

	labelToday    = "আজ"
	labelTomorrow = "আগামীকাল"
)

var banglaWeekdays = [7]string{"রবি", "সোম", "মঙ্গল", "বুধ", "বৃহ", "শুক্র", "শনি"}

type DateOption struct {
	Day     string    `json:"day"`
	Date    int       `json:"date"`
	Month   int       `json:"month"`
	Full    time.Time `json:"full"`
	Value   string    `json:"value"`
	Display string    `json:"display"`
}

type TimeSlot struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

var timeSlots = []TimeSlot{
	{ID: 1, Label: "সকাল ৮-১০টা", Value: "08:00-10:00"},
	{ID: 2, Label: "সকাল ১০-১২টা", Value: "10:00-12:00"},
	{ID: 3, Label: "দুপুর ১২-২টা", Value: "12:00-14:00"},
	{ID: 4, Label: "দুপুর ২-৪টা", Value: "14:00-16:00"},
	{ID: 5, Label: "বিকাল ৪-৬টা", Value: "16:00-18:00"},
	{ID: 6, Label: "সন্ধ্যা ৬-৮টা", Value: "18:00-20:00"},
}

// UpcomingDates returns n consecutive calendar days starting with the day of
// now, in now's location. Day 0 is labeled today and day 1 tomorrow.
func UpcomingDates(now time.Time, n int) []DateOption {
	dates := make([]DateOption, 0, n)
	for i := 0; i < n; i++ {
		day := time.Date(now.Year(), now.Month(), now.Day()+i, 0, 0, 0, 0, now.Location())

		display := fmt.Sprintf("%d/%d", day.Day(), int(day.Month()))
		switch i {
		case 0:
			display = labelToday
		case 1:
			display = labelTomorrow
		}

		dates = append(dates, DateOption{
			Day:     banglaWeekdays[day.Weekday()],
			Date:    day.Day(),
			Month:   int(day.Month()),
			Full:    day,
			Value:   day.Format(DateLayout),
			Display: display,
		})
	}
	return dates
}

func TimeSlots() []TimeSlot {
	out := make([]TimeSlot, len(timeSlots))
	copy(out, timeSlots)
	return out
}

func FindTimeSlot(value string) (TimeSlot, bool) {
	for _, slot := range timeSlots {
		if slot.Value == value {
			return slot, true
		}
	}
	return TimeSlot{}, false
}

// FindDate looks value (YYYY-MM-DD) up in the booking window that starts at now.
func FindDate(value string, now time.Time) (DateOption, bool) {
	for _, d := range UpcomingDates(now, ScheduleWindowDays) {
		if d.Value == value {
			return d, true
		}
	}
	return DateOption{}, false
}
