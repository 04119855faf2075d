//go:build !integration

package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
)

const testAPIKey = "admin-api-key"

type mockStatsUC struct {
	TotalsFunc  func(ctx context.Context) (int, map[model.PurchaseStatus]int, map[string]int, error)
	RevenueFunc func(ctx context.Context) (int64, int64, int64, error)
}

func (m *mockStatsUC) Totals(ctx context.Context) (int, map[model.PurchaseStatus]int, map[string]int, error) {
	if m.TotalsFunc != nil {
		return m.TotalsFunc(ctx)
	}
	return 0, nil, nil, errors.New("not scripted")
}

func (m *mockStatsUC) Revenue(ctx context.Context) (int64, int64, int64, error) {
	if m.RevenueFunc != nil {
		return m.RevenueFunc(ctx)
	}
	return 0, 0, 0, errors.New("not scripted")
}

type mockPurchaseRepo struct {
	ListFunc func(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Purchase, error)
}

func (m *mockPurchaseRepo) Save(ctx context.Context, tx repository.Tx, p *model.Purchase) error {
	return errors.New("not scripted")
}

func (m *mockPurchaseRepo) FindByID(ctx context.Context, tx repository.Tx, id string) (*model.Purchase, error) {
	return nil, errors.New("not scripted")
}

func (m *mockPurchaseRepo) FindByProviderTxnID(ctx context.Context, tx repository.Tx, txnID string) (*model.Purchase, error) {
	return nil, errors.New("not scripted")
}

func (m *mockPurchaseRepo) List(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Purchase, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, tx, offset, limit)
	}
	return nil, errors.New("not scripted")
}

func (m *mockPurchaseRepo) CountByStatus(ctx context.Context, tx repository.Tx) (map[model.PurchaseStatus]int, error) {
	return nil, errors.New("not scripted")
}

func (m *mockPurchaseRepo) SumPaidByPeriod(ctx context.Context, tx repository.Tx, period string) (int64, error) {
	return 0, errors.New("not scripted")
}

func newAdminTestServer(t *testing.T, stats *mockStatsUC, purchases *mockPurchaseRepo) *httptest.Server {
	t.Helper()
	log := zerolog.Nop()
	auth := NewAuthManager("test-secret", false, "", time.Hour)
	s := NewServer(stats, purchases, auth, testAPIKey, &log)
	r := chi.NewRouter()
	s.RegisterRoutes(r)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func login(t *testing.T, srv *httptest.Server, apiKey string) (int, string) {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"api_key": apiKey})
	resp, err := srv.Client().Post(srv.URL+"/api/v1/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return resp.StatusCode, ""
	}
	var out map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.StatusCode, out["token"]
}

func TestAdminLogin(t *testing.T) {
	t.Run("valid key mints a session token", func(t *testing.T) {
		srv := newAdminTestServer(t, &mockStatsUC{}, &mockPurchaseRepo{})
		status, token := login(t, srv, testAPIKey)
		if status != http.StatusOK {
			t.Fatalf("status = %d, want 200", status)
		}
		if token == "" {
			t.Error("login returned an empty token")
		}
	})

	t.Run("wrong key is forbidden", func(t *testing.T) {
		srv := newAdminTestServer(t, &mockStatsUC{}, &mockPurchaseRepo{})
		status, _ := login(t, srv, "wrong-key")
		if status != http.StatusForbidden {
			t.Errorf("status = %d, want 403", status)
		}
	})
}

func TestAdminStats(t *testing.T) {
	stats := &mockStatsUC{
		TotalsFunc: func(ctx context.Context) (int, map[model.PurchaseStatus]int, map[string]int, error) {
			return 5,
				map[model.PurchaseStatus]int{model.PurchaseStatusPaid: 3},
				map[string]int{"course-1": 2},
				nil
		},
		RevenueFunc: func(ctx context.Context) (int64, int64, int64, error) {
			return 100, 200, 300, nil
		},
	}

	t.Run("requires a session", func(t *testing.T) {
		srv := newAdminTestServer(t, stats, &mockPurchaseRepo{})
		resp, err := srv.Client().Get(srv.URL + "/api/v1/stats")
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", resp.StatusCode)
		}
	})

	t.Run("serves totals and revenue with a bearer token", func(t *testing.T) {
		srv := newAdminTestServer(t, stats, &mockPurchaseRepo{})
		_, token := login(t, srv, testAPIKey)

		req, _ := http.NewRequest("GET", srv.URL+"/api/v1/stats", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := srv.Client().Do(req)
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("status = %d, want 200", resp.StatusCode)
		}

		var out struct {
			TotalUsers int `json:"total_users"`
			Revenue    struct {
				Week int64 `json:"week"`
			} `json:"revenue_tiyin"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if out.TotalUsers != 5 {
			t.Errorf("total_users = %d, want 5", out.TotalUsers)
		}
		if out.Revenue.Week != 100 {
			t.Errorf("revenue week = %d, want 100", out.Revenue.Week)
		}
	})
}

func TestAdminPurchasesList(t *testing.T) {
	purchases := &mockPurchaseRepo{
		ListFunc: func(ctx context.Context, tx repository.Tx, offset, limit int) ([]*model.Purchase, error) {
			if offset != 10 || limit != 5 {
				t.Errorf("List(offset=%d, limit=%d), want (10, 5)", offset, limit)
			}
			return []*model.Purchase{{ID: "p-1", Status: model.PurchaseStatusPaid}}, nil
		},
	}
	srv := newAdminTestServer(t, &mockStatsUC{}, purchases)
	_, token := login(t, srv, testAPIKey)

	req, _ := http.NewRequest("GET", srv.URL+"/api/v1/purchases?offset=10&limit=5", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var out struct {
		Data  []*model.Purchase `json:"data"`
		Limit int               `json:"limit"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(out.Data) != 1 || out.Data[0].ID != "p-1" {
		t.Errorf("data = %+v, want one purchase p-1", out.Data)
	}
	if out.Limit != 5 {
		t.Errorf("limit = %d, want 5", out.Limit)
	}
}
