// Package localstore is the durable fallback persistence layer: a bbolt file
// holding whole-value snapshots under two fixed keys, one for the full post
// list (local-only mode) and one for the single autosaved draft.
package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"go.etcd.io/bbolt"

	"github.com/zero-void/site-backend/models"
)

const (
	dbFile          = "zerosite.db"
	bucketSnapshots = "snapshots"
	keyPosts        = "posts"
	keyDraft        = "draft"
)

type Store struct {
	db     *bbolt.DB
	logger zerolog.Logger
}

// Open opens (creating if needed) the snapshot database inside dataDir.
func Open(dataDir string, logger zerolog.Logger) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	db, err := bbolt.Open(filepath.Join(dataDir, dbFile), 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open snapshot db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketSnapshots))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create snapshot bucket: %w", err)
	}

	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Posts returns the snapshotted post list. The second return value is false
// when no snapshot exists or the stored value is unparseable; a corrupt value
// is deleted and treated as absent, never surfaced as an error.
func (s *Store) Posts() ([]models.Post, bool) {
	raw := s.get(keyPosts)
	if raw == nil {
		return nil, false
	}

	var posts []models.Post
	if err := json.Unmarshal(raw, &posts); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt posts snapshot")
		_ = s.delete(keyPosts)
		return nil, false
	}
	return posts, true
}

// SetPosts replaces the snapshotted post list wholesale.
func (s *Store) SetPosts(posts []models.Post) error {
	raw, err := json.Marshal(posts)
	if err != nil {
		return fmt.Errorf("failed to serialize posts snapshot: %w", err)
	}
	return s.put(keyPosts, raw)
}

// Draft returns the autosaved draft snapshot, if a parseable one exists.
func (s *Store) Draft() (*models.DraftSnapshot, bool) {
	raw := s.get(keyDraft)
	if raw == nil {
		return nil, false
	}

	var snap models.DraftSnapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn().Err(err).Msg("discarding corrupt draft snapshot")
		_ = s.delete(keyDraft)
		return nil, false
	}
	return &snap, true
}

// SetDraft overwrites the single draft snapshot.
func (s *Store) SetDraft(snap models.DraftSnapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to serialize draft snapshot: %w", err)
	}
	return s.put(keyDraft, raw)
}

func (s *Store) DeleteDraft() error {
	return s.delete(keyDraft)
}

func (s *Store) get(key string) []byte {
	var raw []byte
	_ = s.db.View(func(tx *bbolt.Tx) error {
		if v := tx.Bucket([]byte(bucketSnapshots)).Get([]byte(key)); v != nil {
			raw = make([]byte, len(v))
			copy(raw, v)
		}
		return nil
	})
	return raw
}

func (s *Store) put(key string, value []byte) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Put([]byte(key), value)
	})
}

func (s *Store) delete(key string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(bucketSnapshots)).Delete([]byte(key))
	})
}
