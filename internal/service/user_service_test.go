package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/shop-api/internal/domain/entity"
	apperrors "github.com/yourusername/shop-api/internal/pkg/errors"
)

func TestUserService_GetProfile(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", context.Background(), "ann@x.com").
		Return(&entity.User{ID: 1, Name: "Ann", Email: "ann@x.com"}, nil)

	p, err := NewUserService(users).GetProfile(context.Background(), "Ann@x.com")
	require.NoError(t, err)
	assert.Equal(t, &Profile{Email: "ann@x.com", Name: "Ann"}, p)
}

func TestUserService_GetProfile_MissingUser(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", context.Background(), "ghost@x.com").Return(nil, apperrors.ErrNotFound)

	p, err := NewUserService(users).GetProfile(context.Background(), "ghost@x.com")
	require.NoError(t, err)
	assert.Equal(t, "User", p.Name)
}

func TestUserService_GetProfile_StoreError(t *testing.T) {
	users := new(MockUserRepository)
	users.On("GetByEmail", context.Background(), "a@x.com").Return(nil, errors.New("db down"))

	_, err := NewUserService(users).GetProfile(context.Background(), "a@x.com")
	assert.ErrorIs(t, err, apperrors.ErrStore)
}
