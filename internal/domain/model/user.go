package model

import "time"

// User carries the fields the side-effect dispatcher needs to reach a buyer.
// Registration and profile management are out of scope here.
type User struct {
	ID           string // UUID
	TelegramID   int64
	FirstName    string
	RegisteredAt time.Time
}
