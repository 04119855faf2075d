package model

import (
	"time"

	"course-subscription-platform/internal/domain"
)

type SubscriptionStatus string

const (
	SubscriptionStatusActive  SubscriptionStatus = "active"
	SubscriptionStatusExpired SubscriptionStatus = "expired"
)

// Subscription is a time-bounded grant of access to one course for one user.
// At most one active subscription exists per (user, course) pair; repeat
// payments extend the existing row in place rather than creating a new one.
type Subscription struct {
	ID       string // ULID
	UserID   string // UUID
	CourseID string // UUID
	Status   SubscriptionStatus

	StartsAt time.Time
	EndsAt   time.Time

	// TimeSlot is set for scheduled/offline courses only.
	TimeSlot *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewSubscription creates an active subscription starting now.
func NewSubscription(id, userID, courseID string, durationDays int, now time.Time) (*Subscription, error) {
	if id == "" || userID == "" || courseID == "" || durationDays <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	return &Subscription{
		ID:        id,
		UserID:    userID,
		CourseID:  courseID,
		Status:    SubscriptionStatusActive,
		StartsAt:  now,
		EndsAt:    now.Add(time.Duration(durationDays) * 24 * time.Hour),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Usable reports whether the subscription grants access at the given instant.
// Stored status may lag behind the clock, so callers must always re-check
// EndsAt instead of trusting status alone.
func (s *Subscription) Usable(at time.Time) bool {
	return s.Status == SubscriptionStatusActive && s.EndsAt.After(at)
}

// Extend pushes EndsAt forward by the given number of days.
func (s *Subscription) Extend(durationDays int, now time.Time) error {
	if durationDays <= 0 {
		return domain.ErrInvalidArgument
	}
	s.EndsAt = s.EndsAt.Add(time.Duration(durationDays) * 24 * time.Hour)
	s.UpdatedAt = now
	return nil
}
