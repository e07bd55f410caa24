package storage

import (
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"gridcalc/internal/grid"
)

var (
	ErrSheetNotFound = errors.New("sheet not found")
	ErrEmptyName     = errors.New("sheet name is empty")
)

var sheetsBucket = []byte("sheets")

// Store keeps named sheets in a bbolt file, one JSON document per name.
type Store struct {
	db *bbolt.DB
}

func OpenStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(sheetsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("open store %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Put saves g under name, replacing any previous version.
func (s *Store) Put(name string, g *grid.Grid) error {
	if name == "" {
		return ErrEmptyName
	}
	data, err := marshalDocument(g)
	if err != nil {
		return err
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(sheetsBucket).Put([]byte(name), data)
	})
}

// Get loads the sheet saved under name. Formulas come back unevaluated.
func (s *Store) Get(name string) (*grid.Grid, error) {
	var g *grid.Grid
	err := s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(sheetsBucket).Get([]byte(name))
		if data == nil {
			return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
		}
		var err error
		g, err = unmarshalDocument(data)
		return err
	})
	return g, err
}

// Names lists saved sheets in key order.
func (s *Store) Names() ([]string, error) {
	var names []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(sheetsBucket).ForEach(func(k, _ []byte) error {
			names = append(names, string(k))
			return nil
		})
	})
	return names, err
}

func (s *Store) Delete(name string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(sheetsBucket)
		if b.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %q", ErrSheetNotFound, name)
		}
		return b.Delete([]byte(name))
	})
}
