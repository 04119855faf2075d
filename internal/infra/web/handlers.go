package web

import (
	"encoding/json"
	"net/http"
	"strconv"

	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
	"course-subscription-platform/internal/usecase"
)

// statsHandler returns an http.HandlerFunc that serves platform statistics.
func statsHandler(statsUC usecase.StatsUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		users, byStatus, activeByCourse, err := statsUC.Totals(ctx)
		if err != nil {
			http.Error(w, "Failed to get totals", http.StatusInternalServerError)
			return
		}

		week, month, year, err := statsUC.Revenue(ctx)
		if err != nil {
			http.Error(w, "Failed to get revenue", http.StatusInternalServerError)
			return
		}

		response := struct {
			TotalUsers        int                            `json:"total_users"`
			PurchasesByStatus map[model.PurchaseStatus]int   `json:"purchases_by_status"`
			ActiveByCourse    map[string]int                 `json:"active_subs_by_course"`
			Revenue           struct {
				Week  int64 `json:"week"`
				Month int64 `json:"month"`
				Year  int64 `json:"year"`
			} `json:"revenue_tiyin"`
		}{
			TotalUsers:        users,
			PurchasesByStatus: byStatus,
			ActiveByCourse:    activeByCourse,
		}
		response.Revenue.Week = week
		response.Revenue.Month = month
		response.Revenue.Year = year

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}

// purchasesListHandler returns a paginated slice of the purchase audit trail.
// It accepts 'offset' and 'limit' query parameters.
func purchasesListHandler(purchases repository.PurchaseRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
		limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
		if limit <= 0 {
			limit = 50 // Default page size
		}
		if offset < 0 {
			offset = 0
		}

		data, err := purchases.List(ctx, repository.NoTX, offset, limit)
		if err != nil {
			http.Error(w, "Failed to list purchases", http.StatusInternalServerError)
			return
		}

		response := struct {
			Data   []*model.Purchase `json:"data"`
			Limit  int               `json:"limit"`
			Offset int               `json:"offset"`
		}{
			Data:   data,
			Limit:  limit,
			Offset: offset,
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(response)
	}
}
