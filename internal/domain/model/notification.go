package model

import "time"

// Notification is an in-app notification record shown to the user.
type Notification struct {
	ID        string // ULID
	UserID    string // UUID
	Title     string
	Message   string
	Link      string
	CreatedAt time.Time
}
