package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/repositories"
	"github.com/desertthunder/songbook/internal/shared"
)

// UserService creates users and serves their public profiles.
type UserService struct {
	store    repositories.RecordStore
	newID    func() int64
	hashCost int
}

// NewUserService creates a [UserService] backed by store.
func NewUserService(store repositories.RecordStore) *UserService {
	return &UserService{store: store, newID: shared.NumericID, hashCost: bcrypt.DefaultCost}
}

// Signup stores a new user with a generated numeric id, a bcrypt password hash and no songs.
func (s *UserService) Signup(ctx context.Context, in SignupInput) (*models.Profile, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, invalid("name is required")
	}
	if in.Password == "" {
		return nil, invalid("password is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.hashCost)
	if err != nil {
		return nil, invalid("password: %v", err)
	}

	for range maxIDAttempts {
		user := models.User{
			ID:            s.newID(),
			Name:          name,
			Email:         strings.TrimSpace(in.Email),
			Password:      string(hash),
			FavoriteSongs: []models.Song{},
		}

		err := s.store.Create(ctx, &user)
		if errors.Is(err, shared.ErrDuplicateUser) {
			continue
		}
		if err != nil {
			return nil, err
		}

		profile := user.Profile()
		return &profile, nil
	}

	return nil, fmt.Errorf("%w: could not allocate a user id", shared.ErrDuplicateUser)
}

// Profile returns the public view of the user with the given id.
func (s *UserService) Profile(ctx context.Context, id int64) (*models.Profile, error) {
	if err := validateUserID(id); err != nil {
		return nil, err
	}

	user, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	profile := user.Profile()
	return &profile, nil
}
