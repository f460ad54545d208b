package recordstore

import (
	"errors"
	"fmt"
	"sync"

	dbm "github.com/tendermint/tm-db"
)

var (
	// ErrNotFound is returned for an unknown record id
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate is returned when a record id is already stored
	ErrDuplicate = errors.New("record already exists")
)

var recordPrefix = []byte("order/")

// Store keeps order records as flat JSON documents keyed by id.
//
// Safe for concurrent use by multiple goroutines.
type Store struct {
	db  dbm.DB
	mtx sync.Mutex
}

// NewStore wraps db
func NewStore(db dbm.DB) *Store {
	return &Store{db: db}
}

// OpenStore opens a goleveldb backed store named name under dir
func OpenStore(name, dir string) (*Store, error) {
	db, err := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open record db: %w", err)
	}
	return NewStore(db), nil
}

// Create stores doc under id. Records are never overwritten.
func (s *Store) Create(id string, doc []byte) error {
	if id == "" {
		return errors.New("empty record id")
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	exists, err := s.db.Has(recordKey(id))
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("%w: %s", ErrDuplicate, id)
	}
	return s.db.SetSync(recordKey(id), doc)
}

// Get returns the document stored under id
func (s *Store) Get(id string) ([]byte, error) {
	doc, err := s.db.Get(recordKey(id))
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, nil
}

// Close closes the underlying db
func (s *Store) Close() error {
	return s.db.Close()
}

func recordKey(id string) []byte {
	return append(append([]byte(nil), recordPrefix...), id...)
}
