package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jfsanchez2k/webflow-ecommerce/internal/entity"
	"github.com/jfsanchez2k/webflow-ecommerce/internal/service"
	mock_service "github.com/jfsanchez2k/webflow-ecommerce/internal/service/mock"
	"github.com/jfsanchez2k/webflow-ecommerce/pkg/logger"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/require"
)

func generateFakeUser() *entity.User {
	return &entity.User{
		ID:       int64(gofakeit.Number(1, 100000)),
		Username: gofakeit.Username(),
		Email:    strings.ToLower(gofakeit.Email()),
	}
}

func newUserService(ctrl *gomock.Controller) (*service.UserService, *mock_service.MockUserRepository) {
	repo := mock_service.NewMockUserRepository(ctrl)
	return service.NewUserService(repo, logger.Nop()), repo
}

func TestUserService_Create(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	testCases := []struct {
		desc    string
		setup   func() *entity.User
		mocks   func(repo *mock_service.MockUserRepository, user *entity.User)
		wantErr error
	}{
		{
			desc:  "Success",
			setup: generateFakeUser,
			mocks: func(repo *mock_service.MockUserRepository, user *entity.User) {
				repo.EXPECT().Create(ctx, user).Return(user, nil).Times(1)
			},
		},
		{
			desc: "NormalizesEmailAndUsername",
			setup: func() *entity.User {
				return &entity.User{
					Username: "  ana  ",
					Email:    "  Ana@Example.COM ",
				}
			},
			mocks: func(repo *mock_service.MockUserRepository, user *entity.User) {
				repo.EXPECT().Create(ctx, user).
					DoAndReturn(func(_ context.Context, u *entity.User) (*entity.User, error) {
						require.Equal(t, "ana", u.Username)
						require.Equal(t, "ana@example.com", u.Email)
						return u, nil
					}).Times(1)
			},
		},
		{
			desc: "UsernameTooShort",
			setup: func() *entity.User {
				user := generateFakeUser()
				user.Username = "a"
				return user
			},
			mocks:   func(repo *mock_service.MockUserRepository, user *entity.User) {},
			wantErr: entity.ErrInvalidData,
		},
		{
			desc: "UsernameTooLong",
			setup: func() *entity.User {
				user := generateFakeUser()
				user.Username = strings.Repeat("a", 81)
				return user
			},
			mocks:   func(repo *mock_service.MockUserRepository, user *entity.User) {},
			wantErr: entity.ErrInvalidData,
		},
		{
			desc: "MalformedEmail",
			setup: func() *entity.User {
				user := generateFakeUser()
				user.Email = "not-an-email"
				return user
			},
			mocks:   func(repo *mock_service.MockUserRepository, user *entity.User) {},
			wantErr: entity.ErrInvalidData,
		},
		{
			desc:  "DuplicateUsername",
			setup: generateFakeUser,
			mocks: func(repo *mock_service.MockUserRepository, user *entity.User) {
				repo.EXPECT().Create(ctx, user).
					Return(nil, entity.ErrConflictingData).Times(1)
			},
			wantErr: entity.ErrConflictingData,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, repo := newUserService(ctrl)

			user := tc.setup()
			tc.mocks(repo, user)

			created, err := svc.Create(ctx, user)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				require.Nil(t, created)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, created)
		})
	}
}

func TestUserService_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newUserService(ctrl)
	user := generateFakeUser()

	repo.EXPECT().GetByID(ctx, user.ID).Return(user, nil).Times(1)

	got, err := svc.Get(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user, got)

	repo.EXPECT().GetByID(ctx, int64(999)).
		Return(nil, entity.ErrDataNotFound).Times(1)

	got, err = svc.Get(ctx, 999)
	require.ErrorIs(t, err, entity.ErrDataNotFound)
	require.Nil(t, got)
}

func TestUserService_List(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newUserService(ctrl)
	users := []*entity.User{generateFakeUser(), generateFakeUser()}

	repo.EXPECT().List(ctx).Return(users, nil).Times(1)

	got, err := svc.List(ctx)
	require.NoError(t, err)
	require.Equal(t, users, got)
}

func TestUserService_Update(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, repo := newUserService(ctrl)
		user := generateFakeUser()

		repo.EXPECT().Update(ctx, user).Return(user, nil).Times(1)

		updated, err := svc.Update(ctx, user)
		require.NoError(t, err)
		require.Equal(t, user, updated)
	})

	t.Run("NotFound", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, repo := newUserService(ctrl)
		user := generateFakeUser()

		repo.EXPECT().Update(ctx, user).
			Return(nil, entity.ErrDataNotFound).Times(1)

		updated, err := svc.Update(ctx, user)
		require.ErrorIs(t, err, entity.ErrDataNotFound)
		require.Nil(t, updated)
	})

	t.Run("InvalidDataSkipsRepository", func(t *testing.T) {
		t.Parallel()

		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		svc, _ := newUserService(ctrl)
		user := generateFakeUser()
		user.Email = ""

		updated, err := svc.Update(ctx, user)
		require.ErrorIs(t, err, entity.ErrInvalidData)
		require.Nil(t, updated)
	})
}

func TestUserService_Delete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, repo := newUserService(ctrl)

	repo.EXPECT().Delete(ctx, int64(7)).Return(nil).Times(1)
	require.NoError(t, svc.Delete(ctx, 7))

	repo.EXPECT().Delete(ctx, int64(8)).
		Return(entity.ErrDataNotFound).Times(1)
	require.ErrorIs(t, svc.Delete(ctx, 8), entity.ErrDataNotFound)

	storageErr := errors.New("connection reset")
	repo.EXPECT().Delete(ctx, int64(9)).Return(storageErr).Times(1)
	require.ErrorIs(t, svc.Delete(ctx, 9), storageErr)
}
