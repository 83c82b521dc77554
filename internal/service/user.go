package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"

	"github.com/go-playground/validator/v10"
)

//go:generate mockgen -source=user.go -destination=mock/user.go -package=mock_service

type (
	UserRepository interface {
		Create(ctx context.Context, user *entity.User) (*entity.User, error)
		GetByID(ctx context.Context, id int64) (*entity.User, error)
		List(ctx context.Context) ([]*entity.User, error)
		Update(ctx context.Context, user *entity.User) (*entity.User, error)
		Delete(ctx context.Context, id int64) error
	}

	UserService struct {
		repo     UserRepository
		validate *validator.Validate
		log      logger.Logger
	}
)

func NewUserService(repo UserRepository, log logger.Logger) *UserService {
	return &UserService{
		repo:     repo,
		validate: validator.New(),
		log:      log,
	}
}

func (us *UserService) List(ctx context.Context) ([]*entity.User, error) {
	const op = "service.user.List"

	users, err := us.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

func (us *UserService) Get(ctx context.Context, id int64) (*entity.User, error) {
	const op = "service.user.Get"

	user, err := us.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (us *UserService) Create(ctx context.Context, user *entity.User) (*entity.User, error) {
	const op = "service.user.Create"
	log := us.log.Ctx(ctx)

	normalizeUser(user)
	if err := us.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrInvalidData, err)
	}

	created, err := us.repo.Create(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Infow("user created",
		"op", op,
		"user_id", created.ID,
		"username", created.Username,
	)

	return created, nil
}

func (us *UserService) Update(ctx context.Context, user *entity.User) (*entity.User, error) {
	const op = "service.user.Update"
	log := us.log.Ctx(ctx)

	normalizeUser(user)
	if err := us.validate.Struct(user); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", op, entity.ErrInvalidData, err)
	}

	updated, err := us.repo.Update(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Infow("user updated",
		"op", op,
		"user_id", updated.ID,
	)

	return updated, nil
}

func (us *UserService) Delete(ctx context.Context, id int64) error {
	const op = "service.user.Delete"
	log := us.log.Ctx(ctx)

	if err := us.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Infow("user deleted",
		"op", op,
		"user_id", id,
	)

	return nil
}

func normalizeUser(user *entity.User) {
	user.Username = strings.TrimSpace(user.Username)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
}
