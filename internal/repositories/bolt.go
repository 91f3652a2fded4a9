package repositories

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/desertthunder/songbook/internal/models"
	"github.com/desertthunder/songbook/internal/shared"
)

var usersBucket = []byte("users")

// BoltStore implements [RecordStore] on a bbolt file. Each user is stored as JSON under its
// big-endian id, so ReadAll returns users ordered by id.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the bbolt database at path and ensures the users bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: could not open bbolt database: %w", shared.ErrStoreUnavailable, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(usersBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: could not create users bucket: %w", shared.ErrStoreUnavailable, err)
	}

	return &BoltStore{db: db}, nil
}

func userKey(id int64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(id))
	return key
}

func decodeUser(value []byte) (models.User, error) {
	var u models.User
	if err := json.Unmarshal(value, &u); err != nil {
		return u, fmt.Errorf("%w: error deserializing user: %w", shared.ErrStoreCorrupt, err)
	}
	if err := checkUser(u); err != nil {
		return u, err
	}
	normalize(&u)
	return u, nil
}

func putUser(b *bbolt.Bucket, u models.User) error {
	normalize(&u)
	value, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("error serializing user: %w", err)
	}
	return b.Put(userKey(u.ID), value)
}

func (s *BoltStore) ReadAll(ctx context.Context) ([]models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	users := []models.User{}
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(usersBucket).ForEach(func(_, v []byte) error {
			u, err := decodeUser(v)
			if err != nil {
				return err
			}
			users = append(users, u)
			return nil
		})
	})
	if err != nil {
		return nil, wrapBolt(err)
	}
	return users, nil
}

func (s *BoltStore) WriteAll(ctx context.Context, users []models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(usersBucket); err != nil {
			return err
		}
		b, err := tx.CreateBucket(usersBucket)
		if err != nil {
			return err
		}

		for _, u := range users {
			if err := putUser(b, u); err != nil {
				return err
			}
		}
		return nil
	})
	return wrapBolt(err)
}

func (s *BoltStore) Get(ctx context.Context, id int64) (*models.User, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var user *models.User
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(usersBucket).Get(userKey(id))
		if v == nil {
			return userNotFound(id)
		}

		u, err := decodeUser(v)
		if err != nil {
			return err
		}
		user = &u
		return nil
	})
	if err != nil {
		return nil, wrapBolt(err)
	}
	return user, nil
}

func (s *BoltStore) Create(ctx context.Context, user *models.User) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(usersBucket)
		if b.Get(userKey(user.ID)) != nil {
			return duplicateUser(user.ID)
		}
		return putUser(b, user.Clone())
	})
	return wrapBolt(err)
}

func (s *BoltStore) Update(ctx context.Context, id int64, fn func(*models.User) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(usersBucket)
		v := b.Get(userKey(id))
		if v == nil {
			return userNotFound(id)
		}

		u, err := decodeUser(v)
		if err != nil {
			return err
		}
		if err := fn(&u); err != nil {
			return err
		}

		u.ID = id
		return putUser(b, u)
	})
	return wrapBolt(err)
}

func (s *BoltStore) Close() error {
	return s.db.Close()
}

// wrapBolt tags bare bbolt failures as unavailable and leaves already classified errors alone.
func wrapBolt(err error) error {
	if err == nil || shared.KindOf(err) != shared.KindUnknown {
		return err
	}
	return fmt.Errorf("%w: %w", shared.ErrStoreUnavailable, err)
}
