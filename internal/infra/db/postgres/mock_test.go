//go:build !integration

package postgres

import (
	"context"
	"errors"
	"time"

	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
)

// mockRedisClient implements redis.RedisClient with scriptable behavior.
type mockRedisClient struct {
	GetFunc func(ctx context.Context, key string) (string, error)
	SetFunc func(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	DelFunc func(ctx context.Context, keys ...string) error
}

func (m *mockRedisClient) Ping(ctx context.Context) error { return nil }

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key)
	}
	return "", errors.New("cache miss")
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	if m.DelFunc != nil {
		return m.DelFunc(ctx, keys...)
	}
	return nil
}

func (m *mockRedisClient) Close() error { return nil }

// mockInnerCourseRepo stands in for the real Postgres-backed course repo.
type mockInnerCourseRepo struct {
	FindByIDFunc func(ctx context.Context, tx repository.Tx, id string) (*model.Course, error)
	ListFunc     func(ctx context.Context, tx repository.Tx) ([]*model.Course, error)
}

func (m *mockInnerCourseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, tx, id)
	}
	return nil, errors.New("not scripted")
}

func (m *mockInnerCourseRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Course, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, tx)
	}
	return nil, errors.New("not scripted")
}
