package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"course-subscription-platform/internal/config"
	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/repository"
	pg "course-subscription-platform/internal/infra/db/postgres"
)

// Seeds a demo course, user and pending purchase so the webhook flow can be
// exercised end to end against a local provider sandbox.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	courseRepo := pg.NewCourseRepo(pool)
	purchaseRepo := pg.NewPurchaseRepo(pool)

	courses, err := courseRepo.List(ctx, repository.NoTX)
	if err != nil {
		log.Fatalf("list courses: %v", err)
	}
	if len(courses) > 0 {
		fmt.Printf("%d courses already present. No changes.\n", len(courses))
		for _, c := range courses {
			fmt.Printf("  - %s (days=%d, price=%d tiyin)\n", c.Title, c.DurationDays, c.Price)
		}
		return
	}

	now := time.Now()
	courseID := uuid.NewString()
	userID := uuid.NewString()
	room := "room-" + courseID[:8]

	if _, err := pool.Exec(ctx, `
INSERT INTO courses (id, title, price, duration_days, chat_room_id, created_at)
VALUES ($1, 'Go for Backend Engineers', 3000000, 30, $2, $3);`, courseID, room, now); err != nil {
		log.Fatalf("seed course: %v", err)
	}
	if _, err := pool.Exec(ctx, `
INSERT INTO users (id, telegram_id, first_name, registered_at)
VALUES ($1, 100200300, 'Demo', $2);`, userID, now); err != nil {
		log.Fatalf("seed user: %v", err)
	}

	p := &model.Purchase{
		ID:        uuid.NewString(),
		UserID:    userID,
		CourseID:  courseID,
		Amount:    3_000_000,
		Status:    model.PurchaseStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := purchaseRepo.Save(ctx, repository.NoTX, p); err != nil {
		log.Fatalf("seed purchase: %v", err)
	}

	fmt.Printf("seeded: course=%s user=%s purchase=%s\n", courseID, userID, p.ID)
	fmt.Println("Seeding complete.")
}
