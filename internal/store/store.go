// Package store caches a jar collection and its clusters in a bbolt
// database so servers can start without re-reading the listings.
package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/ludo-technologies/sourcerer/internal/cluster"
	"github.com/ludo-technologies/sourcerer/internal/listing"
	"github.com/ludo-technologies/sourcerer/internal/version"
)

const (
	TableMetadata = "metadata"
	TableListings = "listings"
)

var (
	keyJars     = []byte("jars")
	keyClusters = []byte("clusters")
	keyVersion  = []byte("version")
	keySavedAt  = []byte("saved-at")
)

// ErrNotCached is returned when the database holds no collection
var ErrNotCached = errors.New("no cluster collection cached")

// Metadata describes the cached collection
type Metadata struct {
	Version string
	SavedAt time.Time
}

// Store is a bbolt database holding one cached cluster collection
type Store struct {
	path    string
	timeout time.Duration
	db      *bolt.DB
	mu      sync.Mutex
}

// New returns a store for the database at path. Call Open before use.
func New(path string) *Store {
	return &Store{path: path, timeout: time.Second}
}

// Open opens or creates the database. Opening an open store is a no-op.
func (s *Store) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db != nil {
		return nil
	}
	db, err := bolt.Open(s.path, 0600, &bolt.Options{Timeout: s.timeout})
	if err != nil {
		return fmt.Errorf("opening cache %s: %w", s.path, err)
	}
	s.db = db
	return s.initDB()
}

// Close closes the database
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return err
	}
	s.db = nil
	return nil
}

func (s *Store) initDB() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{TableMetadata, TableListings} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("initDB: creating bucket %q: %w", name, err)
			}
		}
		return nil
	})
}

// SaveClusters replaces the cached collection with jars and clusters
func (s *Store) SaveClusters(jars *cluster.JarCollection, clusters *cluster.Collection) error {
	var jarBuf, clusterBuf bytes.Buffer
	if err := jars.Save(&jarBuf); err != nil {
		return fmt.Errorf("encoding jars: %w", err)
	}
	if err := clusters.Save(&clusterBuf); err != nil {
		return fmt.Errorf("encoding clusters: %w", err)
	}
	savedAt, err := time.Now().UTC().MarshalText()
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(TableListings))
		if err := b.Put(keyJars, jarBuf.Bytes()); err != nil {
			return err
		}
		if err := b.Put(keyClusters, clusterBuf.Bytes()); err != nil {
			return err
		}
		meta := tx.Bucket([]byte(TableMetadata))
		if err := meta.Put(keyVersion, []byte(version.Short())); err != nil {
			return err
		}
		return meta.Put(keySavedAt, savedAt)
	})
}

// LoadClusters rebuilds the cached jar collection and clusters
func (s *Store) LoadClusters(ctx context.Context, opts listing.Options) (*cluster.JarCollection, *cluster.Collection, error) {
	var jarData, clusterData []byte
	if err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(TableListings))
		// Values are only valid inside the transaction.
		jarData = bytes.Clone(b.Get(keyJars))
		clusterData = bytes.Clone(b.Get(keyClusters))
		return nil
	}); err != nil {
		return nil, nil, err
	}
	if jarData == nil || clusterData == nil {
		return nil, nil, ErrNotCached
	}

	opts.Source = s.path + ":" + string(keyJars)
	jars, _, err := cluster.LoadJarCollection(ctx, bytes.NewReader(jarData), opts)
	if err != nil {
		return nil, nil, err
	}
	opts.Source = s.path + ":" + string(keyClusters)
	clusters, err := cluster.LoadCollection(ctx, bytes.NewReader(clusterData), jars, opts)
	if err != nil {
		return nil, nil, err
	}
	return jars, clusters, nil
}

// Metadata returns the version and time of the last save
func (s *Store) Metadata() (Metadata, error) {
	var m Metadata
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(TableMetadata))
		v := b.Get(keySavedAt)
		if v == nil {
			return ErrNotCached
		}
		m.Version = string(b.Get(keyVersion))
		return m.SavedAt.UnmarshalText(v)
	})
	return m, err
}
