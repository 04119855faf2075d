package model

import "time"

// Course supplies what the payment path needs to know about a course: the
// price the provider must match and the subscription length one payment buys.
// Content structure and admin CRUD live elsewhere.
type Course struct {
	ID           string // UUID
	Title        string
	Price        int64 // tiyin
	DurationDays int

	// ChatRoomID is the course discussion room new subscribers are enrolled
	// into; nil when the course has no room.
	ChatRoomID *string

	CreatedAt time.Time
}

func (c *Course) IsZero() bool { return c == nil || c.ID == "" }
