//go:build !integration

package usecase_test

import (
	"context"
	"testing"
	"time"

	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/usecase"
)

func TestStatsTotals(t *testing.T) {
	ctx := context.Background()
	users := newMemUserRepo()
	purchases := newMemPurchaseRepo()
	subs := newMemSubscriptionRepo()

	users.add(&model.User{ID: "user-1", TelegramID: 1})
	users.add(&model.User{ID: "user-2", TelegramID: 2})

	seed := []struct {
		id     string
		status model.PurchaseStatus
		amount int64
	}{
		{"p-1", model.PurchaseStatusPaid, 3_000_000},
		{"p-2", model.PurchaseStatusPaid, 1_500_000},
		{"p-3", model.PurchaseStatusPending, 3_000_000},
		{"p-4", model.PurchaseStatusFailed, 3_000_000},
	}
	for _, s := range seed {
		p := &model.Purchase{ID: s.id, UserID: "user-1", CourseID: "course-1", Amount: s.amount, Status: s.status}
		if err := purchases.Save(ctx, nil, p); err != nil {
			t.Fatalf("seed purchase %s: %v", s.id, err)
		}
	}

	sub, err := model.NewSubscription("sub-1", "user-1", "course-1", 30, time.Now())
	if err != nil {
		t.Fatalf("NewSubscription() error = %v", err)
	}
	if err := subs.Save(ctx, nil, sub); err != nil {
		t.Fatalf("seed subscription: %v", err)
	}

	uc := usecase.NewStatsUseCase(users, purchases, subs)

	total, byStatus, byCourse, err := uc.Totals(ctx)
	if err != nil {
		t.Fatalf("Totals() error = %v", err)
	}
	if total != 2 {
		t.Errorf("users = %d, want 2", total)
	}
	if byStatus[model.PurchaseStatusPaid] != 2 || byStatus[model.PurchaseStatusPending] != 1 || byStatus[model.PurchaseStatusFailed] != 1 {
		t.Errorf("purchases by status = %v", byStatus)
	}
	if byCourse["course-1"] != 1 {
		t.Errorf("active by course = %v, want course-1:1", byCourse)
	}

	week, month, year, err := uc.Revenue(ctx)
	if err != nil {
		t.Fatalf("Revenue() error = %v", err)
	}
	const wantPaid = 4_500_000
	if week != wantPaid || month != wantPaid || year != wantPaid {
		t.Errorf("Revenue() = (%d, %d, %d), want %d for each period", week, month, year, wantPaid)
	}
}
