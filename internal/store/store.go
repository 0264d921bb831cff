// Package store persists per-unit ad preferences in badger.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/arko-chat/adbridge/internal/adbridge"
	"github.com/dgraph-io/badger/v4"
)

const keyPrefix = "pref/"

// Store implements adbridge.PrefStore.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

var _ adbridge.PrefStore = (*Store)(nil)

// Open opens or creates the store at dir.
func Open(dir string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	return open(opts, logger)
}

// OpenInMemory returns a store that keeps nothing on disk.
func OpenInMemory(logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	return open(opts, logger)
}

func open(opts badger.Options, logger *slog.Logger) (*Store, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open preference store: %w", err)
	}
	return &Store{db: db, logger: logger}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func autorefreshKey(adUnitID string) []byte {
	return []byte(keyPrefix + adUnitID + "/autorefresh")
}

func locationKey(adUnitID string) []byte {
	return []byte(keyPrefix + adUnitID + "/location")
}

// LoadPreferences reports ok=false when nothing was ever saved for the unit.
func (s *Store) LoadPreferences(adUnitID string) (adbridge.Preferences, bool, error) {
	prefs := adbridge.Preferences{Autorefresh: true}
	found := false

	err := s.db.View(func(txn *badger.Txn) error {
		raw, ok, err := get(txn, autorefreshKey(adUnitID))
		if err != nil {
			return err
		}
		if ok {
			enabled, err := strconv.ParseBool(string(raw))
			if err != nil {
				return fmt.Errorf("decode autorefresh for %s: %w", adUnitID, err)
			}
			prefs.Autorefresh = enabled
			found = true
		}

		raw, ok, err = get(txn, locationKey(adUnitID))
		if err != nil {
			return err
		}
		if ok {
			var loc adbridge.Location
			if err := json.Unmarshal(raw, &loc); err != nil {
				return fmt.Errorf("decode location for %s: %w", adUnitID, err)
			}
			prefs.LastKnownLocation = &loc
			found = true
		}
		return nil
	})
	if err != nil {
		return adbridge.Preferences{Autorefresh: true}, false, err
	}
	return prefs, found, nil
}

func (s *Store) SaveAutorefresh(adUnitID string, enabled bool) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(autorefreshKey(adUnitID), []byte(strconv.FormatBool(enabled)))
	})
}

func (s *Store) SaveLocation(adUnitID string, loc adbridge.Location) error {
	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("encode location: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(locationKey(adUnitID), data)
	})
}

// Forget removes every preference saved for the unit.
func (s *Store) Forget(adUnitID string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		for _, key := range [][]byte{autorefreshKey(adUnitID), locationKey(adUnitID)} {
			if err := txn.Delete(key); err != nil {
				return err
			}
		}
		return nil
	})
}

// Units lists every ad unit with saved preferences.
func (s *Store) Units() ([]string, error) {
	var units []string
	seen := make(map[string]struct{})

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			unit := unitFromKey(string(it.Item().Key()))
			if _, ok := seen[unit]; ok || unit == "" {
				continue
			}
			seen[unit] = struct{}{}
			units = append(units, unit)
		}
		return nil
	})
	return units, err
}

func unitFromKey(key string) string {
	rest := key[len(keyPrefix):]
	for i := len(rest) - 1; i >= 0; i-- {
		if rest[i] == '/' {
			return rest[:i]
		}
	}
	return ""
}

func get(txn *badger.Txn, key []byte) ([]byte, bool, error) {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}
