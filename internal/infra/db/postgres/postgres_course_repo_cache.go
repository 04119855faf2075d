package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
	"course-subscription-platform/internal/infra/metrics"
	red "course-subscription-platform/internal/infra/redis"
)

var _ repository.CourseRepository = (*courseRepoCacheDecorator)(nil)

// courseRepoCacheDecorator is a read-through cache over the course repo.
// The webhook path reads the course on every Check/Create/Perform, and
// courses change rarely, so a short TTL is plenty.
type courseRepoCacheDecorator struct {
	inner repository.CourseRepository
	cache red.RedisClient
	ttl   time.Duration
}

func NewCourseRepoCacheDecorator(inner repository.CourseRepository, cache red.RedisClient, ttl time.Duration) repository.CourseRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &courseRepoCacheDecorator{inner: inner, cache: cache, ttl: ttl}
}

func (d *courseRepoCacheDecorator) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	key := fmt.Sprintf("course:%s", id)
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("course", "hit")
		var c model.Course
		if json.Unmarshal([]byte(val), &c) == nil {
			return &c, nil
		}
	}

	metrics.IncCacheRequest("course", "miss")
	c, err := d.inner.FindByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(c); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return c, nil
}

func (d *courseRepoCacheDecorator) List(ctx context.Context, tx repository.Tx) ([]*model.Course, error) {
	key := "courses:all"
	if val, err := d.cache.Get(ctx, key); err == nil {
		metrics.IncCacheRequest("course_list", "hit")
		var cs []*model.Course
		if json.Unmarshal([]byte(val), &cs) == nil {
			return cs, nil
		}
	}

	metrics.IncCacheRequest("course_list", "miss")
	cs, err := d.inner.List(ctx, tx)
	if err != nil {
		return nil, err
	}
	if b, err := json.Marshal(cs); err == nil {
		_ = d.cache.Set(ctx, key, b, d.ttl)
	}
	return cs, nil
}
