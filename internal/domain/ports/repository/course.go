package repository

import (
	"context"

	"course-subscription-platform/internal/domain/model"
)

// CourseRepository is read-only from the payment core's perspective.
type CourseRepository interface {
	FindByID(ctx context.Context, tx Tx, id string) (*model.Course, error)
	List(ctx context.Context, tx Tx) ([]*model.Course, error)
}
