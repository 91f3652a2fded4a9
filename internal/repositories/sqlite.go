package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

// SQLiteStore implements [RecordStore] over the users and songs tables.
//
// Song order is kept by the position column. Every mutation runs in a single transaction.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new [SQLiteStore] with the given database connection.
// Migrations must already have been applied.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func unavailable(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", shared.ErrStoreUnavailable, op, err)
}

func (s *SQLiteStore) ReadAll(ctx context.Context) ([]models.User, error) {
	return readUsers(ctx, s.db)
}

func (s *SQLiteStore) WriteAll(ctx context.Context, users []models.User) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM songs"); err != nil {
			return unavailable("clear songs", err)
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM users"); err != nil {
			return unavailable("clear users", err)
		}

		for i := range users {
			if err := insertUser(ctx, tx, &users[i], i+1); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (*models.User, error) {
	return readUser(ctx, s.db, id)
}

func (s *SQLiteStore) Create(ctx context.Context, user *models.User) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		var exists bool
		if err := tx.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", user.ID).Scan(&exists); err != nil {
			return unavailable("check user", err)
		}
		if exists {
			return duplicateUser(user.ID)
		}

		sequence, err := nextSequence(ctx, tx)
		if err != nil {
			return err
		}
		return insertUser(ctx, tx, user, sequence)
	})
}

func (s *SQLiteStore) Update(ctx context.Context, id int64, fn func(*models.User) error) error {
	return s.inTx(ctx, func(tx *sql.Tx) error {
		user, err := readUser(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := fn(user); err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			"UPDATE users SET name = ?, email = ?, password = ?, profile_image = ? WHERE id = ?",
			user.Name, user.Email, user.Password, user.ProfileImage, id,
		)
		if err != nil {
			return unavailable("update user", err)
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM songs WHERE user_id = ?", id); err != nil {
			return unavailable("clear songs", err)
		}
		return insertSongs(ctx, tx, id, user.FavoriteSongs)
	})
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) inTx(ctx context.Context, fn func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable("begin transaction", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return unavailable("commit", err)
	}
	return nil
}

// nextSequence returns the insertion sequence for a new user row.
func nextSequence(ctx context.Context, q querier) (int, error) {
	var sequence int
	if err := q.QueryRowContext(ctx, "SELECT COALESCE(MAX(sequence), 0) + 1 FROM users").Scan(&sequence); err != nil {
		return 0, unavailable("next sequence", err)
	}
	return sequence, nil
}

func insertUser(ctx context.Context, q querier, user *models.User, sequence int) error {
	_, err := q.ExecContext(ctx,
		"INSERT INTO users (id, sequence, name, email, password, profile_image) VALUES (?, ?, ?, ?, ?, ?)",
		user.ID, sequence, user.Name, user.Email, user.Password, user.ProfileImage,
	)
	if err != nil {
		return unavailable("insert user", err)
	}
	return insertSongs(ctx, q, user.ID, user.FavoriteSongs)
}

func insertSongs(ctx context.Context, q querier, userID int64, songs []models.Song) error {
	for pos, song := range songs {
		_, err := q.ExecContext(ctx,
			"INSERT INTO songs (user_id, position, id, title, artist, album, year) VALUES (?, ?, ?, ?, ?, ?, ?)",
			userID, pos, song.ID, song.Title, song.Artist, song.Album, song.Year,
		)
		if err != nil {
			return unavailable("insert song", err)
		}
	}
	return nil
}

func readUser(ctx context.Context, q querier, id int64) (*models.User, error) {
	user := models.User{FavoriteSongs: []models.Song{}}

	err := q.QueryRowContext(ctx,
		"SELECT id, name, email, password, profile_image FROM users WHERE id = ?", id,
	).Scan(&user.ID, &user.Name, &user.Email, &user.Password, &user.ProfileImage)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, userNotFound(id)
	}
	if err != nil {
		return nil, unavailable("query user", err)
	}

	songs, err := readSongs(ctx, q, "WHERE user_id = ?", id)
	if err != nil {
		return nil, err
	}
	user.FavoriteSongs = append(user.FavoriteSongs, songs[id]...)
	return &user, nil
}

// readUsers fully drains the users query before reading songs, since a single pooled
// connection cannot serve two open result sets.
func readUsers(ctx context.Context, q querier) ([]models.User, error) {
	rows, err := q.QueryContext(ctx, "SELECT id, name, email, password, profile_image FROM users ORDER BY sequence ASC")
	if err != nil {
		return nil, unavailable("query users", err)
	}

	users := []models.User{}
	for rows.Next() {
		u := models.User{FavoriteSongs: []models.Song{}}
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.Password, &u.ProfileImage); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: scan user: %w", shared.ErrStoreCorrupt, err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, unavailable("iterate users", err)
	}
	rows.Close()

	songs, err := readSongs(ctx, q, "")
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].FavoriteSongs = append(users[i].FavoriteSongs, songs[users[i].ID]...)
	}
	return users, nil
}

// readSongs returns songs grouped by user id, each group in position order.
func readSongs(ctx context.Context, q querier, where string, args ...any) (map[int64][]models.Song, error) {
	query := "SELECT user_id, id, title, artist, album, year FROM songs " + where + " ORDER BY user_id, position ASC"

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("query songs", err)
	}
	defer rows.Close()

	songs := make(map[int64][]models.Song)
	for rows.Next() {
		var (
			userID int64
			song   models.Song
		)
		if err := rows.Scan(&userID, &song.ID, &song.Title, &song.Artist, &song.Album, &song.Year); err != nil {
			return nil, fmt.Errorf("%w: scan song: %w", shared.ErrStoreCorrupt, err)
		}
		songs[userID] = append(songs[userID], song)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("iterate songs", err)
	}
	return songs, nil
}
