// Package store holds the in-memory key-addressed record store. It stands on
// the storage side of the codec boundary: everything it holds is opaque
// encoded bytes, keyed by record id and column name.
package store

import (
	"errors"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tuannm99/typedcol/predicate"
)

var ErrRecordNotFound = errors.New("store: record not found")

// Memory is a thread-safe in-memory record store. Rows are maps of column
// name to encoded bytes; an absent column is NULL.
type Memory struct {
	mu   sync.RWMutex
	rows map[uuid.UUID]map[string][]byte
	log  *zap.Logger
}

func NewMemory(log *zap.Logger) *Memory {
	if log == nil {
		log = zap.NewNop()
	}
	return &Memory{
		rows: make(map[uuid.UUID]map[string][]byte),
		log:  log,
	}
}

// Put stores the encoded row under key, replacing any previous version.
func (m *Memory) Put(key uuid.UUID, cols map[string][]byte) error {
	cp := make(map[string][]byte, len(cols))
	for name, b := range cols {
		bc := make([]byte, len(b))
		copy(bc, b)
		cp[name] = bc
	}

	m.mu.Lock()
	m.rows[key] = cp
	m.mu.Unlock()

	m.log.Debug("put record", zap.String("key", key.String()), zap.Int("cols", len(cp)))
	return nil
}

// Get returns a copy of the encoded row under key.
func (m *Memory) Get(key uuid.UUID) (map[string][]byte, error) {
	m.mu.RLock()
	row, ok := m.rows[key]
	m.mu.RUnlock()
	if !ok {
		return nil, ErrRecordNotFound
	}

	cp := make(map[string][]byte, len(row))
	for name, b := range row {
		bc := make([]byte, len(b))
		copy(bc, b)
		cp[name] = bc
	}
	return cp, nil
}

// Delete removes the row under key; deleting an absent key is a no-op.
func (m *Memory) Delete(key uuid.UUID) {
	m.mu.Lock()
	delete(m.rows, key)
	m.mu.Unlock()
}

// Len returns the number of stored rows.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rows)
}

// Find scans all rows and returns the keys matching the fragment tree. This
// is the full-relation scan the predicate layer's advisory warns about; the
// in-memory store has nothing better to offer for substring fragments.
func (m *Memory) Find(f predicate.Fragment) ([]uuid.UUID, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var keys []uuid.UUID
	for key, row := range m.rows {
		ok, err := predicate.Matches(f, row)
		if err != nil {
			return nil, err
		}
		if ok {
			keys = append(keys, key)
		}
	}
	m.log.Debug("find scanned all rows", zap.Int("rows", len(m.rows)), zap.Int("matched", len(keys)))
	return keys, nil
}
