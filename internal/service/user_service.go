package service

import (
	"context"
	"fmt"
	"time"

	"github.com/diagnosis/clinic-bookings/internal/domain"
	"github.com/diagnosis/clinic-bookings/internal/repo/postgres"
	"github.com/diagnosis/clinic-bookings/pkg/events"
	"github.com/diagnosis/clinic-bookings/pkg/logger"
)

type UserService interface {
	Upsert(ctx context.Context, email, name string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	IsAdmin(ctx context.Context, email string) (bool, error)
	Elevate(ctx context.Context, id int64, promotedBy string) error
}

type userService struct {
	users    postgres.UsersRepo
	eventBus events.Publisher
}

func NewUserService(users postgres.UsersRepo, eventBus events.Publisher) UserService {
	return &userService{users: users, eventBus: eventBus}
}

func (s *userService) Upsert(ctx context.Context, email, name string) (*domain.User, error) {
	return s.users.Upsert(ctx, email, name)
}

func (s *userService) List(ctx context.Context) ([]domain.User, error) {
	return s.users.List(ctx)
}

func (s *userService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.users.FindByEmail(ctx, email)
}

func (s *userService) IsAdmin(ctx context.Context, email string) (bool, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}

// Elevate grants the admin role to the target account. Idempotent: elevating
// an account that is already admin succeeds without further effect.
func (s *userService) Elevate(ctx context.Context, id int64, promotedBy string) error {
	ok, err := s.users.SetRole(ctx, id, domain.RoleAdmin)
	if err != nil {
		return fmt.Errorf("failed to set role: %w", err)
	}
	if !ok {
		return ErrNotFound
	}

	event := events.UserPromotedEvent{
		UserID:     id,
		PromotedBy: promotedBy,
		PromotedAt: time.Now(),
	}
	if err := s.eventBus.Publish(ctx, events.UserPromoted, event); err != nil {
		logger.ErrorContext(ctx, "Failed to publish user promoted event", "error", err, "user_id", id)
	}
	return nil
}
