//go:build !integration

package usecase_test

import (
	"context"
	"sync"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain"
	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
)

func newTestLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// =============================
// Repositories
// =============================

// memPurchaseRepo is a small in-memory implementation used by unit tests.
type memPurchaseRepo struct {
	mu        sync.RWMutex
	store     map[string]*model.Purchase
	SaveCalls int
	SaveFunc  func(ctx context.Context, tx repository.Tx, p *model.Purchase) error
}

func newMemPurchaseRepo() *memPurchaseRepo {
	return &memPurchaseRepo{store: make(map[string]*model.Purchase)}
}

func (m *memPurchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	if m.SaveFunc != nil {
		if err := m.SaveFunc(ctx, tx, p); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SaveCalls++
	cp := *p
	m.store[p.ID] = &cp
	return nil
}

func (m *memPurchaseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *memPurchaseRepo) FindByProviderTxnID(ctx context.Context, tx repository.Tx, txnID string) (*model.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		if p.ProviderTxnID != nil && *p.ProviderTxnID == txnID {
			cp := *p
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memPurchaseRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Purchase, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Purchase
	for _, p := range m.store {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func (m *memPurchaseRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.PurchaseStatus]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[model.PurchaseStatus]int)
	for _, p := range m.store {
		counts[p.Status]++
	}
	return counts, nil
}

func (m *memPurchaseRepo) SumPaidByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var sum int64
	for _, p := range m.store {
		if p.Status == model.PurchaseStatusPaid {
			sum += p.Amount
		}
	}
	return sum, nil
}

// memSubscriptionRepo keys subscriptions by id and satisfies the stats methods.
type memSubscriptionRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Subscription
}

func newMemSubscriptionRepo() *memSubscriptionRepo {
	return &memSubscriptionRepo{store: make(map[string]*model.Subscription)}
}

func (m *memSubscriptionRepo) Save(ctx context.Context, tx repository.Tx, s *model.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *s
	m.store[s.ID] = &cp
	return nil
}

func (m *memSubscriptionRepo) FindActiveByUserAndCourse(ctx context.Context, tx repository.Tx, userID, courseID string) (*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.store {
		if s.UserID == userID && s.CourseID == courseID && s.Status == model.SubscriptionStatusActive {
			cp := *s
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *memSubscriptionRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string) ([]*model.Subscription, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Subscription
	for _, s := range m.store {
		if s.UserID == userID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *memSubscriptionRepo) AcquireGrantLock(ctx context.Context, tx repository.Tx, userID, courseID string) error {
	// Serialization is provided by the tx manager mock in unit tests.
	return nil
}

func (m *memSubscriptionRepo) MarkExpired(ctx context.Context, tx repository.Tx, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive && !s.EndsAt.After(now) {
			s.Status = model.SubscriptionStatusExpired
			n++
		}
	}
	return n, nil
}

func (m *memSubscriptionRepo) CountActiveByCourse(ctx context.Context, tx repository.Tx) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]int)
	for _, s := range m.store {
		if s.Status == model.SubscriptionStatusActive {
			out[s.CourseID]++
		}
	}
	return out, nil
}

// memCourseRepo serves fixed courses.
type memCourseRepo struct {
	mu    sync.RWMutex
	store map[string]*model.Course
}

func newMemCourseRepo() *memCourseRepo {
	return &memCourseRepo{store: make(map[string]*model.Course)}
}

func (m *memCourseRepo) add(c *model.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *c
	m.store[c.ID] = &cp
}

func (m *memCourseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (m *memCourseRepo) List(ctx context.Context, tx repository.Tx) ([]*model.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []*model.Course
	for _, c := range m.store {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

// memUserRepo serves fixed users.
type memUserRepo struct {
	mu    sync.RWMutex
	store map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{store: make(map[string]*model.User)}
}

func (m *memUserRepo) add(u *model.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *u
	m.store[u.ID] = &cp
}

func (m *memUserRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memUserRepo) CountUsers(ctx context.Context, tx repository.Tx) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.store), nil
}

// memNotificationRepo records saved notifications.
type memNotificationRepo struct {
	mu      sync.Mutex
	Saved   []*model.Notification
	SaveErr error
}

func newMemNotificationRepo() *memNotificationRepo { return &memNotificationRepo{} }

func (m *memNotificationRepo) Save(ctx context.Context, tx repository.Tx, n *model.Notification) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *n
	m.Saved = append(m.Saved, &cp)
	return nil
}

func (m *memNotificationRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*model.Notification, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Notification
	for _, n := range m.Saved {
		if n.UserID == userID {
			cp := *n
			out = append(out, &cp)
		}
	}
	return out, nil
}

// =============================
// Adapters & plumbing
// =============================

type mockBot struct {
	mu      sync.Mutex
	Sent    []string
	SendErr error
}

func (m *mockBot) SendMessage(ctx context.Context, telegramID int64, text string) error {
	if m.SendErr != nil {
		return m.SendErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, text)
	return nil
}

type mockRooms struct {
	mu       sync.Mutex
	Enrolled []string // "userID:roomID"
	AddErr   error
}

func (m *mockRooms) AddUserToRoom(ctx context.Context, userID, roomID string) error {
	if m.AddErr != nil {
		return m.AddErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Enrolled = append(m.Enrolled, userID+":"+roomID)
	return nil
}

// syncRunner executes submitted tasks inline so tests observe effects
// deterministically.
type syncRunner struct {
	SubmitErr error
}

func (r *syncRunner) Submit(task func(ctx context.Context) error) error {
	if r.SubmitErr != nil {
		return r.SubmitErr
	}
	return task(context.Background())
}

// mockTxManager runs the callback without a real database transaction. The
// mutex gives unit tests the same serialization the row locks provide in
// Postgres.
type mockTxManager struct {
	mu sync.Mutex
}

func newMockTxManager() *mockTxManager { return &mockTxManager{} }

func (m *mockTxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(ctx, repository.NoTX)
}
