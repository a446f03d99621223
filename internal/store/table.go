// Package store holds the in-memory record tables and the aggregate Store
// that owns them. Tables are single-owner structures: one goroutine drives
// all access for the lifetime of the process, so there is no locking.
package store

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"

	apperrors "github.com/noah-isme/award-tracker/pkg/errors"
)

// Record is a row stored in a Table: it exposes its unique key and can
// check its own field constraints.
type Record[K comparable] interface {
	Key() K
	Validate() error
}

// Table is a keyed container of one record type, preserving insertion order
// for stable display.
type Table[K comparable, R Record[K]] struct {
	name string
	keys []K
	rows map[K]R
}

// NewTable returns an empty table with the given name.
func NewTable[K comparable, R Record[K]](name string) *Table[K, R] {
	return &Table[K, R]{
		name: name,
		rows: make(map[K]R),
	}
}

// Name returns the table name, which is also its data file stem.
func (t *Table[K, R]) Name() string {
	return t.name
}

// Len returns the number of rows.
func (t *Table[K, R]) Len() int {
	return len(t.rows)
}

// Get returns the record stored under key.
func (t *Table[K, R]) Get(key K) (R, error) {
	r, ok := t.rows[key]
	if !ok {
		var zero R
		return zero, apperrors.Clone(apperrors.ErrNotFound,
			fmt.Sprintf("%s has no row with key %v", t.name, key))
	}
	return r, nil
}

// Has reports whether a record is stored under key.
func (t *Table[K, R]) Has(key K) bool {
	_, ok := t.rows[key]
	return ok
}

// Insert validates r and stores it, failing if its key is already taken.
func (t *Table[K, R]) Insert(r R) error {
	if err := r.Validate(); err != nil {
		return err
	}
	key := r.Key()
	if _, ok := t.rows[key]; ok {
		return apperrors.Clone(apperrors.ErrDuplicateKey,
			fmt.Sprintf("%s already has a row with key %v", t.name, key))
	}
	t.keys = append(t.keys, key)
	t.rows[key] = r
	return nil
}

// Update applies mutate to a copy of the record stored under key and
// commits the copy only if the mutator and the record's own validation both
// succeed. A failed mutation leaves the stored record untouched. Mutators
// must replace pointer-typed fields rather than writing through them, and
// must not change the record's key.
func (t *Table[K, R]) Update(key K, mutate func(*R) error) error {
	cur, ok := t.rows[key]
	if !ok {
		return apperrors.Clone(apperrors.ErrNotFound,
			fmt.Sprintf("%s has no row with key %v", t.name, key))
	}
	next := cur
	if err := mutate(&next); err != nil {
		return err
	}
	if next.Key() != key {
		return apperrors.Clone(apperrors.ErrInternal,
			fmt.Sprintf("mutation changed the key of %s row %v", t.name, key))
	}
	if err := next.Validate(); err != nil {
		return err
	}
	t.rows[key] = next
	return nil
}

// Delete removes the record stored under key.
func (t *Table[K, R]) Delete(key K) error {
	if _, ok := t.rows[key]; !ok {
		return apperrors.Clone(apperrors.ErrNotFound,
			fmt.Sprintf("%s has no row with key %v", t.name, key))
	}
	delete(t.rows, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
	return nil
}

// All returns the rows in insertion order. The slice is a snapshot, so
// callers may mutate the table while ranging over it.
func (t *Table[K, R]) All() []R {
	out := make([]R, 0, len(t.keys))
	for _, k := range t.keys {
		out = append(out, t.rows[k])
	}
	return out
}

// Load replaces the table contents with the records in the JSON file at
// path. Any malformed or invalid record aborts the whole load and leaves
// the previous contents in place, so a corrupt file never yields a
// partially populated table.
func (t *Table[K, R]) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCorruptData.Code,
			fmt.Sprintf("failed to read %s data file", t.name))
	}

	var records []R
	if err := json.Unmarshal(data, &records); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCorruptData.Code,
			fmt.Sprintf("%s data file is not valid JSON", t.name))
	}

	keys := make([]K, 0, len(records))
	rows := make(map[K]R, len(records))
	for i, r := range records {
		if err := r.Validate(); err != nil {
			return apperrors.Wrap(err, apperrors.ErrCorruptData.Code,
				fmt.Sprintf("%s record %d failed validation", t.name, i))
		}
		key := r.Key()
		if _, ok := rows[key]; ok {
			return apperrors.Wrap(
				apperrors.Clone(apperrors.ErrDuplicateKey, fmt.Sprintf("duplicate key %v", key)),
				apperrors.ErrCorruptData.Code,
				fmt.Sprintf("%s record %d duplicates an earlier key", t.name, i))
		}
		keys = append(keys, key)
		rows[key] = r
	}

	t.keys = keys
	t.rows = rows
	return nil
}

// Save writes the table contents to the JSON file at path, in insertion
// order. The file is written to a temporary name first and renamed into
// place so a failed save never leaves a torn data file.
func (t *Table[K, R]) Save(path string) error {
	data, err := json.MarshalIndent(t.All(), "", "  ")
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal.Code,
			fmt.Sprintf("failed to encode %s", t.name))
	}

	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.NewString())
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return apperrors.Wrap(err, apperrors.ErrInternal.Code,
			fmt.Sprintf("failed to write %s data file", t.name))
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return apperrors.Wrap(err, apperrors.ErrInternal.Code,
			fmt.Sprintf("failed to replace %s data file", t.name))
	}
	return nil
}

// NextID returns the smallest unused positive integer key in t, for tables
// keyed by internal numeric identifiers.
func NextID[R Record[int]](t *Table[int, R]) int {
	id := 1
	for t.Has(id) {
		id++
	}
	return id
}
