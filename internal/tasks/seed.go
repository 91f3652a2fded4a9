package tasks

import (
	"context"
	"fmt"
	"math/rand"
	"strings"

	"github.com/jaswdr/faker"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/services"
	"github.com/desertthunder/songbook/internal/shared"
)

const maxSeedUsers = 1000

// SeedOpts contains configuration for seeding.
type SeedOpts struct {
	Users        int   // Users to create (default: 5)
	SongsPerUser int   // Songs added to each user (default: 3)
	Seed         int64 // Faker seed, 0 picks a random one
}

// SeededUser pairs a created profile with the plaintext password it was signed up with.
type SeededUser struct {
	Profile  models.Profile
	Password string
}

// SeedResult summarizes a seeding run.
type SeedResult struct {
	Users []SeededUser
	Songs int
}

// Seeder fills a store with fake users and favorite songs.
type Seeder struct {
	accounts Accounts
	songs    services.SongCollection
}

// NewSeeder creates a [Seeder].
func NewSeeder(accounts Accounts, songs services.SongCollection) *Seeder {
	return &Seeder{accounts: accounts, songs: songs}
}

// Seed creates opts.Users users and adds opts.SongsPerUser server-numbered songs to each.
//
// It stops at the first failure and returns what was created so far.
func (s *Seeder) Seed(ctx context.Context, prog chan<- ProgressUpdate, opts SeedOpts) (*SeedResult, error) {
	if opts.Users == 0 {
		opts.Users = 5
	}
	if opts.SongsPerUser == 0 {
		opts.SongsPerUser = 3
	}
	if opts.Users < 0 || opts.Users > maxSeedUsers {
		return nil, fmt.Errorf("%w: users must be between 1 and %d", shared.ErrInvalidArgument, maxSeedUsers)
	}
	if opts.SongsPerUser < 0 {
		return nil, fmt.Errorf("%w: songs per user must not be negative", shared.ErrInvalidArgument)
	}

	seed := opts.Seed
	if seed == 0 {
		seed = rand.Int63()
	}
	fake := faker.NewWithSeed(rand.NewSource(seed))

	result := &SeedResult{Users: make([]SeededUser, 0, opts.Users)}
	totalSongs := opts.Users * opts.SongsPerUser

	for i := range opts.Users {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		in := fakeSignup(fake)
		profile, err := s.accounts.Signup(ctx, in)
		if err != nil {
			return result, fmt.Errorf("failed to create user %d: %w", i+1, err)
		}
		sendProgress(prog, seedUserUpdate(i+1, opts.Users, profile))

		for range opts.SongsPerUser {
			if err := ctx.Err(); err != nil {
				return result, err
			}

			song, err := s.songs.AddSong(ctx, profile.ID, fakeSong(fake))
			if err != nil {
				return result, fmt.Errorf("failed to add song for user %d: %w", profile.ID, err)
			}
			profile.FavoriteSongs = append(profile.FavoriteSongs, *song)
			result.Songs++
			sendProgress(prog, seedSongUpdate(result.Songs, totalSongs, profile.ID, song))
		}

		result.Users = append(result.Users, SeededUser{Profile: *profile, Password: in.Password})
	}

	return result, nil
}

func fakeSignup(fake faker.Faker) services.SignupInput {
	first := fake.Person().FirstName()
	last := fake.Person().LastName()
	return services.SignupInput{
		Name:     first + " " + last,
		Email:    strings.ToLower(fmt.Sprintf("%s.%s@%s", first, last, fake.Internet().Domain())),
		Password: fake.Internet().Password(),
	}
}

func fakeSong(fake faker.Faker) models.SongInput {
	return models.SongInput{
		Title:  fake.Music().Name(),
		Artist: fake.Music().Author(),
		Album:  strings.Join(fake.Lorem().Words(2), " "),
		Year:   fake.IntBetween(1960, 2024),
	}
}
