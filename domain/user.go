package domain

import "time"

const DefaultLanguage = "en"

// User is identified by its email across chats and presence.
type User struct {
	ID                string     `json:"id"`
	Username          string     `json:"username"`
	Email             string     `json:"email"`
	ProfilePicture    *string    `json:"profilePicture"`
	PreferredLanguage string     `json:"preferredLanguage"`
	IsOnline          bool       `json:"isOnline"`
	LastSeen          *time.Time `json:"lastSeen"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
