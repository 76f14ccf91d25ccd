package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	bolt "go.etcd.io/bbolt"
)

var _ KV = (*BoltKV)(nil)

const boltBucket = "shoplist"

// BoltKV stores records in a single bbolt bucket.
type BoltKV struct {
	db *bolt.DB
}

func NewBoltKV(path string) (BoltKV, error) {
	const op = "NewBoltKV"
	log := slog.With("op", op)

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return BoltKV{}, fmt.Errorf("%s: %w", op, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(boltBucket))
		return err
	})
	if err != nil {
		_ = db.Close()
		return BoltKV{}, fmt.Errorf("%s: failed to create bucket: %w", op, err)
	}

	log.Info("bolt storage is open", "path", path)
	return BoltKV{db}, nil
}

func (s BoltKV) Get(ctx context.Context, key string) (string, bool, error) {
	const op = "BoltKV.Get"

	if err := ctx.Err(); err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}

	var (
		v  string
		ok bool
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(boltBucket)).Get([]byte(key))
		if b != nil {
			v, ok = string(b), true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("%s: %w", op, err)
	}
	return v, ok, nil
}

func (s BoltKV) Set(ctx context.Context, key, value string) error {
	const op = "BoltKV.Set"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if key == "" {
		return fmt.Errorf("%s: %w", op, ErrEmptyKey)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(boltBucket)).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s BoltKV) Close() {
	const op = "BoltKV.Close"
	log := slog.With("op", op)

	log.Info("closing bolt storage...")
	if err := s.db.Close(); err != nil {
		log.Error("failed to close", "err", err)
		return
	}
	log.Info("bolt storage is closed")
}
