package pickup

import (
	"fmt"
	"strings"
)

type Status string

const (
	StatusPending    Status = "pending"
	StatusAccepted   Status = "accepted"
	StatusOnTheWay   Status = "on-the-way"
	StatusAtLocation Status = "at-location"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

var allStatuses = []Status{
	StatusPending,
	StatusAccepted,
	StatusOnTheWay,
	StatusAtLocation,
	StatusInProgress,
	StatusCompleted,
	StatusCancelled,
}

func Statuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

func Parse(s string) (Status, error) {
	for _, st := range allStatuses {
		if string(st) == strings.TrimSpace(s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown pickup status %q", s)
}

func IsTerminal(s Status) bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Label is the Bengali status text shown to users.
func Label(s Status) string {
	switch s {
	case StatusPending:
		return "অপেক্ষমাণ"
	case StatusAccepted:
		return "গৃহীত"
	case StatusOnTheWay:
		return "পথে আছেন"
	case StatusAtLocation:
		return "পৌঁছেছেন"
	case StatusInProgress:
		return "সংগ্রহ চলছে"
	case StatusCompleted:
		return "সম্পন্ন"
	case StatusCancelled:
		return "বাতিল"
	}
	return string(s)
}
