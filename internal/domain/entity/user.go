package entity

import (
	"time"
)

const (
	RoleHousehold = "household"
	RoleCollector = "collector"
)

type User struct {
	ID           string  `json:"id" firestore:"id"`
	Name         string  `json:"name" firestore:"name"`
	Email        string  `json:"email" firestore:"email"`
	Phone        string  `json:"phone" firestore:"phone"`
	Address      string  `json:"address,omitempty" firestore:"address,omitempty"`
	Role         string  `json:"role" firestore:"role"` // household, collector
	PhotoURL     string  `json:"photo_url,omitempty" firestore:"photoURL,omitempty"`
	AuthProvider string  `json:"auth_provider" firestore:"authProvider"`
	Rating       float64 `json:"rating" firestore:"rating"`
	TotalRatings int     `json:"total_ratings" firestore:"totalRatings"`

	CreatedAt time.Time `json:"created_at" firestore:"createdAt"`
	UpdatedAt time.Time `json:"updated_at" firestore:"updatedAt"`
}

// ApplyRating folds one more score into the running average.
func (u *User) ApplyRating(score int) {
	total := u.Rating * float64(u.TotalRatings)
	u.TotalRatings++
	u.Rating = (total + float64(score)) / float64(u.TotalRatings)
}

// PublicProfile is what other users get to see.
type PublicProfile struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Role         string  `json:"role"`
	PhotoURL     string  `json:"photo_url,omitempty"`
	Rating       float64 `json:"rating"`
	TotalRatings int     `json:"total_ratings"`
}

func (u *User) Public() PublicProfile {
	return PublicProfile{
		ID:           u.ID,
		Name:         u.Name,
		Role:         u.Role,
		PhotoURL:     u.PhotoURL,
		Rating:       u.Rating,
		TotalRatings: u.TotalRatings,
	}
}
