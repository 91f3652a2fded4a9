package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
	tu "github.com/desertthunder/songbook/internal/testing"
)

func newTestUserService(store *tu.MockStore) *UserService {
	svc := NewUserService(store)
	svc.hashCost = bcrypt.MinCost
	return svc
}

func TestUserService(t *testing.T) {
	ctx := context.Background()

	t.Run("Signup", func(t *testing.T) {
		store := tu.NewMockStore()
		svc := newTestUserService(store)

		profile, err := svc.Signup(ctx, SignupInput{Name: " Ada ", Email: "ada@example.com", Password: "secret"})
		require.NoError(t, err)
		require.Positive(t, profile.ID)
		require.Equal(t, "Ada", profile.Name)
		require.Empty(t, profile.ProfileImage)
		require.NotNil(t, profile.FavoriteSongs)
		require.Empty(t, profile.FavoriteSongs)

		stored, err := store.Get(ctx, profile.ID)
		require.NoError(t, err)
		require.NotEqual(t, "secret", stored.Password)
		require.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret")))
		require.Error(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("wrong")))
	})

	t.Run("Signup retries on id collision", func(t *testing.T) {
		store := tu.NewMockStore(models.User{ID: 5})
		svc := newTestUserService(store)

		ids := []int64{5, 6}
		svc.newID = func() int64 {
			id := ids[0]
			ids = ids[1:]
			return id
		}

		profile, err := svc.Signup(ctx, SignupInput{Name: "Bo", Password: "pw"})
		require.NoError(t, err)
		require.Equal(t, int64(6), profile.ID)
	})

	t.Run("Signup validation", func(t *testing.T) {
		tests := []struct {
			name string
			in   SignupInput
		}{
			{"missing name", SignupInput{Password: "pw"}},
			{"blank name", SignupInput{Name: "   ", Password: "pw"}},
			{"missing password", SignupInput{Name: "Ada"}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				store := tu.NewMockStore()
				_, err := newTestUserService(store).Signup(ctx, tt.in)
				require.ErrorIs(t, err, shared.ErrInvalidRequest)
				require.Zero(t, store.CallCount())
			})
		}
	})

	t.Run("Profile", func(t *testing.T) {
		store := tu.NewMockStore(models.User{ID: 9, Name: "Cy", Password: "hash", FavoriteSongs: []models.Song{{ID: 1}}})
		svc := newTestUserService(store)

		profile, err := svc.Profile(ctx, 9)
		require.NoError(t, err)
		require.Equal(t, "Cy", profile.Name)
		require.Equal(t, []models.Song{{ID: 1}}, profile.FavoriteSongs)

		_, err = svc.Profile(ctx, 10)
		require.ErrorIs(t, err, shared.ErrUserNotFound)

		_, err = svc.Profile(ctx, 0)
		require.ErrorIs(t, err, shared.ErrInvalidRequest)
	})
}
