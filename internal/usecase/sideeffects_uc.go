package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"course-subscription-platform/internal/domain/model"
	"course-subscription-platform/internal/domain/ports/adapter"
	"course-subscription-platform/internal/domain/ports/repository"
	"course-subscription-platform/internal/infra/metrics"
)

// Compile-time check
var _ SideEffectsUseCase = (*sideEffectsUC)(nil)

// SideEffectsUseCase fires the best-effort follow-ups of a captured payment:
// an in-app notification record, a Telegram message and enrollment into the
// course discussion room. Each effect is independent; failures are logged and
// swallowed, never surfaced to the webhook response, since the payment and
// entitlement are already committed by the time this runs.
type SideEffectsUseCase interface {
	DispatchPaymentEffects(ctx context.Context, p *model.Purchase, sub *model.Subscription)
}

// Runner is the task-submission surface of the worker pool.
type Runner interface {
	Submit(task func(ctx context.Context) error) error
}

type sideEffectsUC struct {
	users         repository.UserRepository
	courses       repository.CourseRepository
	notifications repository.NotificationRepository
	bot           adapter.TelegramBotAdapter
	rooms         adapter.ChatRoomAdapter
	runner        Runner
	log           *zerolog.Logger
}

func NewSideEffectsUseCase(
	users repository.UserRepository,
	courses repository.CourseRepository,
	notifications repository.NotificationRepository,
	bot adapter.TelegramBotAdapter,
	rooms adapter.ChatRoomAdapter,
	runner Runner,
	logger *zerolog.Logger,
) *sideEffectsUC {
	compLog := logger.With().Str("component", "SideEffectsUC").Logger()
	return &sideEffectsUC{
		users:         users,
		courses:       courses,
		notifications: notifications,
		bot:           bot,
		rooms:         rooms,
		runner:        runner,
		log:           &compLog,
	}
}

func (u *sideEffectsUC) DispatchPaymentEffects(ctx context.Context, p *model.Purchase, sub *model.Subscription) {
	course, err := u.courses.FindByID(ctx, repository.NoTX, p.CourseID)
	if err != nil {
		u.log.Error().Err(err).Str("course_id", p.CourseID).Msg("side effects: course lookup failed")
		return
	}

	u.submit("notification", func(ctx context.Context) error {
		n := &model.Notification{
			ID:        ulid.Make().String(),
			UserID:    p.UserID,
			Title:     "Access granted",
			Message:   fmt.Sprintf("Your payment for %q was received. Access is active until %s.", course.Title, sub.EndsAt.Format("2006-01-02")),
			Link:      "/courses/" + course.ID,
			CreatedAt: time.Now(),
		}
		return u.notifications.Save(ctx, repository.NoTX, n)
	})

	u.submit("telegram", func(ctx context.Context) error {
		user, err := u.users.FindByID(ctx, repository.NoTX, p.UserID)
		if err != nil {
			return err
		}
		text := fmt.Sprintf("✅ Payment received! %q is unlocked until %s.", course.Title, sub.EndsAt.Format("2006-01-02"))
		return u.bot.SendMessage(ctx, user.TelegramID, text)
	})

	if course.ChatRoomID != nil {
		roomID := *course.ChatRoomID
		u.submit("chat_enroll", func(ctx context.Context) error {
			return u.rooms.AddUserToRoom(ctx, p.UserID, roomID)
		})
	}
}

func (u *sideEffectsUC) submit(kind string, task func(ctx context.Context) error) {
	wrapped := func(ctx context.Context) error {
		if err := task(ctx); err != nil {
			metrics.IncSideEffect(kind, "error")
			u.log.Error().Err(err).Str("effect", kind).Msg("side effect failed")
			return nil // swallowed: already logged, never retried here
		}
		metrics.IncSideEffect(kind, "ok")
		return nil
	}
	if err := u.runner.Submit(wrapped); err != nil {
		metrics.IncSideEffect(kind, "dropped")
		u.log.Warn().Err(err).Str("effect", kind).Msg("side effect dropped")
	}
}
