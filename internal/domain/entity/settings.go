package entity

import "time"

type Settings struct {
	UserID               string    `json:"user_id" firestore:"userId"`
	NotificationsEnabled bool      `json:"notifications_enabled" firestore:"notificationsEnabled"`
	SoundEnabled         bool      `json:"sound_enabled" firestore:"soundEnabled"`
	AutoAcceptEnabled    bool      `json:"auto_accept_enabled" firestore:"autoAcceptEnabled"`
	LocationEnabled      bool      `json:"location_enabled" firestore:"locationEnabled"`
	Language             string    `json:"language" firestore:"language"` // bn, en
	UpdatedAt            time.Time `json:"updated_at" firestore:"updatedAt"`
}

func DefaultSettings(userID string) *Settings {
	return &Settings{
		UserID:               userID,
		NotificationsEnabled: true,
		SoundEnabled:         true,
		AutoAcceptEnabled:    false,
		LocationEnabled:      true,
		Language:             "bn",
	}
}
